package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type aliasFile struct {
	Aliases []entity.ClientAlias `yaml:"aliases"`
}

// LoadClientAliases lê o arquivo YAML com a tabela nome → client_id:
//
//	aliases:
//	  - name: ACME
//	    client_id: 7
func LoadClientAliases(path string) ([]entity.ClientAlias, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open alias file: %w", err)
	}
	defer f.Close()
	return ParseClientAliases(f)
}

func ParseClientAliases(r io.Reader) ([]entity.ClientAlias, error) {
	var file aliasFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parse alias file: %w", err)
	}

	seen := make(map[string]bool, len(file.Aliases))
	for i, a := range file.Aliases {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return nil, fmt.Errorf("alias %d: name is required", i+1)
		}
		if a.ClientID <= 0 {
			return nil, fmt.Errorf("alias %q: client_id must be positive", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("alias %q declared twice", name)
		}
		seen[name] = true
		file.Aliases[i].Name = name
	}
	return file.Aliases, nil
}
