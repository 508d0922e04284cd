package models

import (
	"time"

	"docstudio/internal/connstr"
)

// PoolingConfiguration holds the pooler settings of one database. Identifier
// matches Database.Identifier.
type PoolingConfiguration struct {
	Identifier       string    `json:"identifier"`
	PoolMode         string    `json:"pool_mode"`
	Host             string    `json:"db_host"`
	Port             int       `json:"db_port"`
	User             string    `json:"db_user"`
	Name             string    `json:"db_name"`
	ConnectionString string    `json:"connection_string"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Pooling converts the row into the composer's input.
func (p *PoolingConfiguration) Pooling() *connstr.Pooling {
	return &connstr.Pooling{
		Identifier:       p.Identifier,
		PoolMode:         connstr.PoolMode(p.PoolMode),
		Host:             p.Host,
		Port:             p.Port,
		User:             p.User,
		Name:             p.Name,
		ConnectionString: p.ConnectionString,
	}
}

// FindPooling returns the configuration whose identifier matches, or nil.
func FindPooling(configs []PoolingConfiguration, identifier string) *PoolingConfiguration {
	for i := range configs {
		if configs[i].Identifier == identifier {
			return &configs[i]
		}
	}
	return nil
}
