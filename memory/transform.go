package memory

import (
	"fmt"
	"strings"

	"github.com/agentloop/agentloop/core"
)

// transformPreamble is the fixed sentence prefixed to injected memory content.
const transformPreamble = "Relevant memory content (most relevant first):"

// Inject renders query results into a single memory-derived system message
// listing each result's content as a numbered line, and appends it to buf.
// With no results it is a no-op: the buffer is left unchanged.
//
// Store implementations use it as their Transform so injected context looks
// identical regardless of the retrieval backend.
func Inject(buf *core.Buffer, results []core.MemoryContent) error {
	if len(results) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString(transformPreamble)
	for i, res := range results {
		fmt.Fprintf(&b, "\n%d. %s", i+1, res.Content)
	}

	return buf.Append(core.SystemMessage{Content: b.String(), MemoryDerived: true})
}
