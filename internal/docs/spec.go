package docs

// Spec is a library spec file. CLI specs fill Commands and Flags; client
// library specs fill Functions.
type Spec struct {
	Info      SpecInfo   `yaml:"info"`
	Commands  []Command  `yaml:"commands"`
	Flags     []Flag     `yaml:"flags"`
	Functions []Function `yaml:"functions"`
}

// SpecInfo describes the documented library.
type SpecInfo struct {
	ID          string `yaml:"id"`
	Version     string `yaml:"version"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Command is one CLI command.
type Command struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Summary     string   `yaml:"summary"`
	Description string   `yaml:"description"`
	Usage       string   `yaml:"usage"`
	Tags        []string `yaml:"tags"`
	Subcommands []string `yaml:"subcommands"`
	Flags       []Flag   `yaml:"flags"`
}

// Flag is a CLI flag.
type Flag struct {
	ID           string `yaml:"id"`
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	DefaultValue string `yaml:"default_value"`
	Required     bool   `yaml:"required"`
}

// Function is one client library function.
type Function struct {
	ID          string    `yaml:"id"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Notes       string    `yaml:"notes"`
	Params      []Param   `yaml:"params"`
	Examples    []Example `yaml:"examples"`
}

// Param is a function parameter.
type Param struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	Optional    bool   `yaml:"isOptional"`
}

// Example is a usage example of a function; Code is Markdown with a fenced
// code block.
type Example struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Code        string `yaml:"code"`
}

func (s *Spec) command(id string) *Command {
	for i := range s.Commands {
		if s.Commands[i].ID == id {
			return &s.Commands[i]
		}
	}
	return nil
}

func (s *Spec) function(id string) *Function {
	for i := range s.Functions {
		if s.Functions[i].ID == id {
			return &s.Functions[i]
		}
	}
	return nil
}
