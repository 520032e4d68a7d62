package rulefile

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yurykabanov/logrotated/pkg/logrotate"
)

const nginxRules = `
- name: nginx
  logs:
    - /var/log/nginx/access.log
    - /var/log/nginx/error.log
  compress: delayed
  frequency: weekly
  keep: 14
  sharedscripts: true
  create: 0640 www-data adm
  postrotate_script: |
    invoke-rc.d nginx rotate >/dev/null 2>&1
- name: php
  logs: /var/log/php.log
  compress: false
  missingok: false
`

func TestParse(t *testing.T) {
	rules, err := Parse([]byte(nginxRules))
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "nginx", rules[0].Name)

	rule, err := logrotate.Normalize(rules[0].Name, rules[0].Params)
	require.NoError(t, err)

	assert.Equal(t, []string{"/var/log/nginx/access.log", "/var/log/nginx/error.log"}, rule.Logs)
	assert.Equal(t, logrotate.CompressDelayed, rule.Compress)
	assert.Equal(t, logrotate.Weekly, rule.Frequency)
	assert.Equal(t, 14, rule.Keep)
	assert.True(t, rule.SharedScripts)
	assert.Equal(t, "0640 www-data adm", rule.Create)
	assert.Equal(t, []logrotate.Script{{Slot: logrotate.PostRotate, Body: "invoke-rc.d nginx rotate >/dev/null 2>&1\n"}}, rule.Scripts)

	rule, err = logrotate.Normalize(rules[1].Name, rules[1].Params)
	require.NoError(t, err)

	assert.Equal(t, []string{"/var/log/php.log"}, rule.Logs)
	assert.Equal(t, logrotate.CompressOff, rule.Compress)
	assert.False(t, rule.MissingOK)
	assert.True(t, rule.RotateIfEmpty)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("name: not a list"))

	assert.NotNil(t, err)
}

func TestLoadDirectory(t *testing.T) {
	dir, err := ioutil.TempDir("", "rulefile")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "b.yml"), []byte("- name: b\n  logs: /var/log/b.log\n"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "a.yaml"), []byte("- name: a\n  logs: /var/log/a.log\n"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "README.md"), []byte("# not rules"), 0644))

	rules, err := LoadDirectory(dir)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "a", rules[0].Name)
	assert.Equal(t, "b", rules[1].Name)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "c.yaml"), []byte("- name: [broken"), 0644))

	_, err = LoadDirectory(dir)
	assert.Contains(t, err.Error(), "Unable to parse rules file")
}

func TestLoadDirectory_Missing(t *testing.T) {
	rules, err := LoadDirectory("/bad_directory")
	assert.Nil(t, err)
	assert.Empty(t, rules)

	rules, err = LoadDirectory("")
	assert.Nil(t, err)
	assert.Empty(t, rules)
}
