package templates

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWithBase(t *testing.T) {
	t.Run("renders page", func(t *testing.T) {
		buf := new(bytes.Buffer)
		data := map[string]any{
			"Title":        "CHARM",
			"PatientData":  `{"error": "<script>"}`,
			"Mortality":    "0.36",
			"Points":       0,
			"ReferenceURL": "https://example.com",
			"Factors": []map[string]any{
				{"Key": "chills", "Label": "Chills", "Present": true, "FromObservation": false},
			},
		}

		err := RenderWithBase(buf, "charm.html", data)

		require.NoError(t, err)
		html := buf.String()
		assert.Contains(t, html, "<title>CHARM</title>")
		assert.Contains(t, html, `<h4 id="prob">0.36</h4>`)
		assert.Contains(t, html, `name="chills" value="Yes" checked`)
		assert.Contains(t, html, "&lt;script&gt;")
	})
	t.Run("unknown template", func(t *testing.T) {
		err := RenderWithBase(new(bytes.Buffer), "missing.html", nil)
		assert.Error(t, err)
	})
}
