package templates

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/buildsim/comfortflow/pkg/pipeline"
)

// readJSONList is the one template implemented natively: it only decodes
// and validates a sensor-grid manifest, which is this layer's own
// loop-item contract rather than external tool behaviour.
type readJSONList struct{}

// ReadJSONList returns the native manifest-reading template.
func ReadJSONList() Template {
	return readJSONList{}
}

func (readJSONList) Spec() Spec { return ReadJSONListSpec }

// Run validates the manifest and writes its canonical form into the
// workdir as the data artifact.
func (readJSONList) Run(ctx context.Context, call Call) (Artifacts, error) {
	src, err := os.Open(call.Inputs["src"])
	if err != nil {
		return nil, errors.Wrap(err, "unable to open the grid manifest")
	}
	defer src.Close()

	items, err := pipeline.DecodeGridItems(src)
	if err != nil {
		return nil, errors.Wrap(err, "unable to decode the grid manifest")
	}

	dest := filepath.Join(call.Workdir, "data.json")

	file, err := os.Create(dest)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create the data artifact")
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	if err := enc.Encode(items); err != nil {
		return nil, errors.Wrap(err, "unable to encode the grid manifest")
	}

	return Artifacts{"data": dest}, nil
}
