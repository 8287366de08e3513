// Package schema installs the blog content types, either as schema files in a backend's source tree or
// through the backend's content-type builder API.
package schema

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/armadaproject/cmsbench/internal/common/cmserrors"
)

const SchemaFileName = "schema.json"

// Installer writes definitions under Root. It never talks to the backend; the backend picks the files
// up on its next restart.
type Installer struct {
	Root string
}

func NewInstaller(root string) *Installer {
	return &Installer{Root: root}
}

// PathFor returns where the definition for entity is written: <root>/api/<entity>/content-types/<entity>/schema.json.
func (i *Installer) PathFor(entity string) string {
	return filepath.Join(i.Root, "api", entity, "content-types", entity, SchemaFileName)
}

// Install writes every definition, creating directories as needed and replacing existing files.
// Returns the paths written, in order.
func (i *Installer) Install(defs []Definition) ([]string, error) {
	if err := validateDefinitions(defs); err != nil {
		return nil, err
	}
	log.Info("Installing schemas...")
	log.Infof("Working in directory: %s", i.Root)

	paths := make([]string, 0, len(defs))
	for _, def := range defs {
		path := i.PathFor(def.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return paths, errors.WithStack(err)
		}
		data, err := json.MarshalIndent(def.Schema, "", "  ")
		if err != nil {
			return paths, errors.WithStack(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, errors.WithStack(err)
		}
		log.Infof("Created schema file: %s (attributes: %s)", path, strings.Join(def.Schema.AttributeNames(), ", "))
		paths = append(paths, path)
	}
	log.Info("Schema installation complete!")
	log.Info("Restart the backend to apply these changes.")
	return paths, nil
}

// ReadSchema parses a schema file written by Install.
func ReadSchema(path string) (ContentType, error) {
	var ct ContentType
	data, err := os.ReadFile(path)
	if err != nil {
		return ct, errors.WithStack(err)
	}
	if err := json.Unmarshal(data, &ct); err != nil {
		return ct, errors.Wrapf(err, "parsing %s", path)
	}
	return ct, nil
}

func validateDefinitions(defs []Definition) error {
	var result *multierror.Error
	seen := map[string]bool{}
	for _, def := range defs {
		if def.Name == "" || strings.ContainsAny(def.Name, `/\`) || def.Name == "." || def.Name == ".." {
			result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
				Name:    "name",
				Value:   def.Name,
				Message: "entity names must be non-empty and must not contain path separators",
			}))
			continue
		}
		if seen[def.Name] {
			result = multierror.Append(result, errors.WithStack(&cmserrors.ErrInvalidArgument{
				Name:    "name",
				Value:   def.Name,
				Message: "defined more than once",
			}))
		}
		seen[def.Name] = true
	}
	return result.ErrorOrNil()
}
