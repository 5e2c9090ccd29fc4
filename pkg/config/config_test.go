package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		ServiceName: "catalog",
		HTTP:        HTTPConfig{Port: 8080},
		Mongo:       MongoConfig{URI: "mongodb://localhost:27017", Database: "catalog"},
		AWS:         AWSConfig{Region: "us-east-1"},
		SQS:         SQSConfig{QueueURL: "https://sqs.example.com/q.fifo"},
		S3:          S3Config{Bucket: "catalog-exports"},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Environment != "dev" {
		t.Errorf("environment default = %q, want dev", cfg.Environment)
	}
}

func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"service name", func(c *Config) { c.ServiceName = "" }, "service_name"},
		{"mongo uri", func(c *Config) { c.Mongo.URI = "" }, "mongo URI"},
		{"mongo database", func(c *Config) { c.Mongo.Database = "" }, "database"},
		{"queue url", func(c *Config) { c.SQS.QueueURL = "" }, "queue URL"},
		{"bucket", func(c *Config) { c.S3.Bucket = "" }, "bucket"},
		{"region", func(c *Config) { c.AWS.Region = "" }, "region"},
		{"port", func(c *Config) { c.HTTP.Port = 0 }, "port"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation failure")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want mention of %q", err, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
service_name = "catalog"
environment = "staging"

[mongo]
uri = "mongodb://localhost:27017"
database = "catalog"

[aws]
region = "us-east-1"

[sqs]
queue_url = "https://sqs.example.com/q.fifo"

[s3]
bucket = "catalog-exports"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Errorf("environment = %q", cfg.Environment)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("port default = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.SQS.WaitTimeSeconds != 20 || cfg.SQS.MaxMessages != 10 {
		t.Errorf("sqs defaults = %+v", cfg.SQS)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`service_name = "catalog"`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected load to fail without required fields")
	}
}
