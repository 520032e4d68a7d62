package rulefile

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yurykabanov/logrotated/pkg/catalog"
)

// Parse decodes a YAML document holding a list of rules.
func Parse(data []byte) ([]catalog.NamedParams, error) {
	var rules []catalog.NamedParams

	err := yaml.Unmarshal(data, &rules)
	if err != nil {
		return nil, err
	}

	return rules, nil
}

// LoadDirectory reads every *.yaml and *.yml file in dir in lexical order.
// Empty dir name or missing directory means there are no rules.
func LoadDirectory(dir string) ([]catalog.NamedParams, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := ioutil.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to read rules directory %s", dir)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var rules []catalog.NamedParams

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to read rules file %s", path)
		}

		parsed, err := Parse(data)
		if err != nil {
			return nil, errors.Wrapf(err, "Unable to parse rules file %s", path)
		}

		rules = append(rules, parsed...)
	}

	return rules, nil
}
