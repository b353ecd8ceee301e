package core

import "testing"

func TestConfig_DatabaseURL(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Engine = "postgres"
	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.Name = "testdb"
	cfg.Database.Username = "testuser"
	cfg.Database.Password = "testpassword"

	url := cfg.DatabaseURL()
	expected := "host=localhost port=5432 dbname=testdb user=testuser password=testpassword sslmode="
	if url != expected {
		t.Errorf("DatabaseURL() want = %s, got = %s", expected, url)
	}
}

func TestConfig_DataSource(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "sqlite uses the configured filename",
			cfg: func() *Config {
				c := &Config{}
				c.Database.Engine = "sqlite"
				c.Database.Filename = "/var/lib/prsctl/jobs.db"
				return c
			}(),
			want: "/var/lib/prsctl/jobs.db",
		},
		{
			name: "postgres uses the DSN",
			cfg: func() *Config {
				c := &Config{}
				c.Database.Engine = "postgres"
				c.Database.Host = "localhost"
				c.Database.Port = 5432
				c.Database.Name = "testdb"
				c.Database.Username = "testuser"
				c.Database.Password = "testpassword"
				return c
			}(),
			want: "host=localhost port=5432 dbname=testdb user=testuser password=testpassword sslmode=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DataSource(); got != tt.want {
				t.Errorf("DataSource() = %q, want %q", got, tt.want)
			}
		})
	}
}
