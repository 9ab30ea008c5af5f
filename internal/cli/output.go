package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"clickmate/internal/profiles"
)

const masked = "********"

func writeProfiles(w io.Writer, format string, ps []profiles.ConnectionProfile) error {
	switch format {
	case "json":
		return writeJSON(w, ps)
	case "yaml":
		return writeYAML(w, ps)
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if len(ps) == 0 {
		fmt.Fprintln(w, "No connection profiles.")
		return nil
	}
	data := pterm.TableData{{"ID", "NAME", "HOST", "PORT", "SECURE", "USERNAME", "DATABASE"}}
	for _, p := range ps {
		data = append(data, []string{
			idString(p.ID),
			deref(p.Name),
			p.Host,
			strconv.Itoa(p.Port),
			strconv.FormatBool(p.Secure),
			p.Username,
			deref(p.Database),
		})
	}
	return renderTable(w, data, true)
}

func writeProfile(w io.Writer, format string, p profiles.ConnectionProfile) error {
	switch format {
	case "json":
		return writeJSON(w, p)
	case "yaml":
		return writeYAML(w, p)
	case "table":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	password := ""
	if p.Password != nil {
		password = masked
	}
	return renderTable(w, pterm.TableData{
		{"ID", idString(p.ID)},
		{"NAME", deref(p.Name)},
		{"HOST", p.Host},
		{"PORT", strconv.Itoa(p.Port)},
		{"SECURE", strconv.FormatBool(p.Secure)},
		{"USERNAME", p.Username},
		{"PASSWORD", password},
		{"DATABASE", deref(p.Database)},
	}, false)
}

func renderTable(w io.Writer, data pterm.TableData, header bool) error {
	if color.NoColor {
		pterm.DisableColor()
	}
	out, err := pterm.DefaultTable.WithHasHeader(header).WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
