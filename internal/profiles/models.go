package profiles

import "strconv"

// ConnectionProfile is a stored description of how to reach a remote
// analytical database. ID is nil until the profile has been persisted.
type ConnectionProfile struct {
	ID       *int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name     *string `json:"name,omitempty" yaml:"name,omitempty"`
	Host     string  `json:"host" yaml:"host"`
	Port     int     `json:"port" yaml:"port"`
	Secure   bool    `json:"secure" yaml:"secure"`
	Username string  `json:"username" yaml:"username"`
	Password *string `json:"password,omitempty" yaml:"password,omitempty"`
	Database *string `json:"database,omitempty" yaml:"database,omitempty"`
}

// DisplayName is the profile name, or host:port when it has none.
func (p ConnectionProfile) DisplayName() string {
	if p.Name != nil && *p.Name != "" {
		return *p.Name
	}
	return p.Host + ":" + strconv.Itoa(p.Port)
}
