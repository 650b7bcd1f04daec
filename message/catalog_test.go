package message

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"golang.org/x/text/language"
)

func TestCatalog_DefaultMessages(t *testing.T) {
	c := Default()

	assert.Equal(t, "Unterminated ${ expression", c.Message(ELUnterminated, "${"))
	assert.Equal(t, "Invalid quoting in expression 'a\\b'", c.Message(ELInvalidQuoting, `'a\b'`))
}

func TestCatalog_MissingKeyFallsBackToKey(t *testing.T) {
	c := Default()
	assert.Equal(t, "no.such.key", c.Message("no.such.key", "ignored"))

	var nilCatalog *Catalog
	assert.Equal(t, "no.such.key", nilCatalog.Message("no.such.key"))
	assert.Equal(t, language.English, nilCatalog.Language())
}

func TestCatalog_Overrides(t *testing.T) {
	c, err := New(language.Japanese, map[string]string{
		ELUnterminated: "%[1]s 式が閉じられていません",
		"custom.key":   "custom %[1]d",
	})
	assert.NoError(t, err)

	assert.Equal(t, "${ 式が閉じられていません", c.Message(ELUnterminated, "${"))
	assert.Equal(t, "custom 3", c.Message("custom.key", 3))
	// keys without an override fall back to English
	assert.Equal(t, "Invalid quoting in expression x", c.Message(ELInvalidQuoting, "x"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	err := os.WriteFile(path, []byte("el.unterminated: \"open %[1]s\"\n"), 0644)
	assert.NoError(t, err)

	c, err := Load("en", path)
	assert.NoError(t, err)
	assert.Equal(t, "open #{", c.Message(ELUnterminated, "#{"))

	_, err = Load("not a language!", "")
	assert.Error(t, err)
}
