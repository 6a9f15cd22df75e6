// Package config loads flat option structs with CLI > env > TOML
// precedence and watches the config file for runtime changes.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/smazurov/lightnode/internal/logging"
)

// envPrefix namespaces the environment variables read by LoadConfig.
const envPrefix = "LIGHTNODE_"

// LoadConfig fills opts from the TOML file and environment. Fields the
// user set explicitly on the command line are left untouched, giving
// CLI > env > file precedence. opts must be a pointer to a flat struct
// whose fields carry `toml` (dot-path) and `env` tags.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts).Elem()
	t := v.Type()

	changed := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				changed[f.Name] = true
			}
		})
	}

	var configPath string
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Name == "Config" {
			configPath = v.Field(i).String()
			break
		}
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			var file map[string]any
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("parse config file: %w", err)
			}
			for i := 0; i < t.NumField(); i++ {
				field := v.Field(i)
				ft := t.Field(i)
				if changed[flagName(ft.Name)] {
					continue
				}
				if path := ft.Tag.Get("toml"); path != "" {
					if value := lookupPath(file, path); value != nil {
						assign(field, value)
					}
				}
			}
		}
	}

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		ft := t.Field(i)
		if changed[flagName(ft.Name)] {
			continue
		}
		if key := ft.Tag.Get("env"); key != "" {
			if value := os.Getenv(envPrefix + key); value != "" {
				assignString(field, value)
			}
		}
	}

	return nil
}

// LoadLoggingConfig reads the [logging] table. Keys other than level
// and format are treated as per-module level overrides. Missing or
// unparsable files yield the defaults.
func LoadLoggingConfig(configPath string) logging.Config {
	cfg := logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}

	if configPath == "" {
		return cfg
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg
	}

	var raw struct {
		Logging map[string]string `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg
	}

	for key, value := range raw.Logging {
		switch key {
		case "level":
			cfg.Level = value
		case "format":
			cfg.Format = value
		default:
			cfg.Modules[key] = value
		}
	}
	return cfg
}

// flagName converts a field name to its CLI flag form.
// "LedBrightness" becomes "led-brightness".
func flagName(field string) string {
	var out []rune
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			out = append(out, '-')
		}
		out = append(out, unicode.ToLower(r))
	}
	return string(out)
}

// lookupPath walks nested TOML tables by dot notation.
func lookupPath(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data
	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

func assign(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}
	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int:
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
		case int:
			field.SetInt(int64(n))
		}
	case reflect.Float64:
		switch n := value.(type) {
		case float64:
			field.SetFloat(n)
		case int64:
			field.SetFloat(float64(n))
		}
	}
}

func assignString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int:
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(n)
		}
	case reflect.Float64:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			field.SetFloat(f)
		}
	}
}
