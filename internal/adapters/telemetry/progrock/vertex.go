package progrock

import (
	"fmt"
	"io"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"github.com/vito/progrock"
)

var _ ports.Vertex = (*Vertex)(nil)

// Vertex is one fetch step of a dependency, such as "fetch sxplayer".
// Cache hits and failures are echoed to the vertex logs under that name,
// so a recording replayed later still tells which dependency was skipped
// or broke the run.
type Vertex struct {
	name   string
	vertex *progrock.VertexRecorder
}

// Name returns the label the vertex was recorded under.
func (v *Vertex) Name() string {
	return v.name
}

// Stdout receives progress lines such as "downloading <url>".
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr receives git clone progress and failure reasons.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Complete finishes the vertex, logging err against the vertex name.
func (v *Vertex) Complete(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(v.vertex.Stderr(), "%s failed: %v\n", v.name, err)
	}
	v.vertex.Done(err)
}

// Cached marks the dependency as already up to date.
func (v *Vertex) Cached() {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "%s: up to date\n", v.name)
	v.vertex.Cached()
}
