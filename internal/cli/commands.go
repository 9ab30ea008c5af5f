package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"clickmate/internal/app"
	"clickmate/internal/profiles"
)

// Defaults offered for a new profile.
const (
	defaultPort     = 8123
	defaultUsername = "default"
)

func (c *cli) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the profile database exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.app.Status()
			if err != nil {
				return err
			}
			path, err := c.app.DatabasePath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch state {
			case app.StateOnboarding:
				color.New(color.FgYellow).Fprintf(out, "%s: no profile database at %s\n", state, path)
			default:
				color.New(color.FgGreen).Fprintf(out, "%s: %s\n", state, path)
			}
			return nil
		},
	}
}

func (c *cli) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the encrypted profile database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := c.app.Status()
			if err != nil {
				return err
			}
			if state != app.StateOnboarding {
				return errAlreadyInitialized
			}
			pass, err := readPassphrase(cmd, c.passphraseStdin, true)
			if err != nil {
				return err
			}
			if err := c.app.Unlock(pass); err != nil {
				return err
			}
			path, _ := c.app.DatabasePath()
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "Created profile database at %s\n", path)
			return nil
		},
	}
}

func (c *cli) newListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connection profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.unlock(cmd); err != nil {
				return err
			}
			ps, err := c.app.ListProfiles()
			if err != nil {
				return err
			}
			return writeProfiles(cmd.OutOrStdout(), output, ps)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func (c *cli) newGetCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one connection profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.unlock(cmd); err != nil {
				return err
			}
			p, err := c.app.GetProfile(id)
			if err != nil {
				return err
			}
			return writeProfile(cmd.OutOrStdout(), output, p)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

// profileFlags binds the editable profile fields to flags.
type profileFlags struct {
	name, host, username, password, database string
	port                                     int
	secure                                   bool
}

func (f *profileFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "display name")
	fs.StringVar(&f.host, "host", "", "server host")
	fs.IntVar(&f.port, "port", defaultPort, "server port")
	fs.BoolVar(&f.secure, "secure", false, "use TLS to reach the server")
	fs.StringVar(&f.username, "username", defaultUsername, "user name")
	fs.StringVar(&f.password, "password", "", "password")
	fs.StringVar(&f.database, "database", "", "default database")
}

// apply copies every flag set on the command line onto p. Optional fields
// are cleared when set to an empty string.
func (f *profileFlags) apply(fs *pflag.FlagSet, p *profiles.ConnectionProfile, all bool) {
	set := func(name string) bool { return all || fs.Changed(name) }
	optional := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	if set("name") {
		p.Name = optional(f.name)
	}
	if set("host") {
		p.Host = f.host
	}
	if set("port") {
		p.Port = f.port
	}
	if set("secure") {
		p.Secure = f.secure
	}
	if set("username") {
		p.Username = f.username
	}
	if set("password") {
		p.Password = optional(f.password)
	}
	if set("database") {
		p.Database = optional(f.database)
	}
}

func (c *cli) newAddCmd() *cobra.Command {
	var f profileFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a new connection profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p profiles.ConnectionProfile
			f.apply(cmd.Flags(), &p, true)
			if err := c.unlock(cmd); err != nil {
				return err
			}
			id, err := c.app.CreateProfile(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created profile %d (%s)\n", id, p.DisplayName())
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.MarkFlagRequired("host")
	return cmd
}

func (c *cli) newUpdateCmd() *cobra.Command {
	var f profileFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a connection profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.unlock(cmd); err != nil {
				return err
			}
			p, err := c.app.GetProfile(id)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), &p, false)
			if err := c.app.UpdateProfile(id, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated profile %d\n", id)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a connection profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := c.unlock(cmd); err != nil {
				return err
			}
			if err := c.app.DeleteProfile(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %d\n", id)
			return nil
		},
	}
}

func (c *cli) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <legacy.db>",
		Short: "Import profiles from an unencrypted profile database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.unlock(cmd); err != nil {
				return err
			}
			ids, err := c.app.ImportLegacy(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d profiles\n", len(ids))
			return nil
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid profile id %q", s)
	}
	return id, nil
}
