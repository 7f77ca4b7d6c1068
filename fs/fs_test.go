package appfs

import (
	"io/fs"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFS(t *testing.T) {
	for _, name := range []string{"_base.txt", "_base.gohtml", "welcome.txt", "welcome.gohtml"} {
		_, err := fs.Stat(FS, path.Join(EmailTemplatesDir, name))
		assert.NoError(t, err, name)
	}

	migrations, err := fs.Glob(FS, path.Join(MigrationsDir, "*.sql"))
	require.NoError(t, err)
	assert.Len(t, migrations, 3)
}
