package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Project is the optional ry.yaml file at the project root. It currently
// configures where `import` looks for modules beyond the working directory.
type Project struct {
	// ModulePaths are extra directories searched by the import resolver,
	// relative to the directory containing ry.yaml unless absolute.
	ModulePaths []string `yaml:"module_paths"`
}

// LoadProject reads ry.yaml starting at dir and walking up to the
// filesystem root. A missing file is not an error; an empty Project is
// returned.
func LoadProject(dir string) (*Project, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return &Project{}, err
	}

	for {
		path := filepath.Join(current, ProjectFileName)
		data, err := os.ReadFile(path)
		if err == nil {
			project := &Project{}
			if err := yaml.Unmarshal(data, project); err != nil {
				return &Project{}, err
			}
			// Anchor relative module paths at the project file.
			for i, p := range project.ModulePaths {
				if !filepath.IsAbs(p) {
					project.ModulePaths[i] = filepath.Join(current, p)
				}
			}
			return project, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return &Project{}, nil
		}
		current = parent
	}
}
