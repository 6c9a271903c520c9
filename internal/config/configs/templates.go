package configs

// Templates points at the directory holding <ref>.tmpl campaign templates.
type Templates struct {
	Dir string `env:"DIR" envDefault:"templates"`
}
