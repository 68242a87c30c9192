package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable_Render(t *testing.T) {
	buf := new(bytes.Buffer)
	table := NewTable(buf, []string{"name", "max width"})
	table.AddRow("thumb", "400")
	table.AddRow("medium", "1024")

	require.NoError(t, table.Render())

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "thumb")
	assert.Contains(t, out, "1024")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("thumb")), bytes.Index(buf.Bytes(), []byte("medium")))
}
