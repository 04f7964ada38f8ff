package courtspeed

import (
	"fmt"

	"github.com/swdee/go-courtspeed/estimator"
	"github.com/swdee/go-courtspeed/tracker"
	"github.com/swdee/go-courtspeed/transform"
)

// Pipeline chains the view transformer and estimator in processing order
type Pipeline struct {
	Transformer *transform.ViewTransformer
	Estimator   *estimator.Estimator
}

// NewPipeline returns a Pipeline for the given pitch calibration and
// estimator parameters.  Call Close() when finished
func NewPipeline(cal transform.Calibration, p estimator.Params) (*Pipeline, error) {

	vt, err := transform.NewViewTransformer(cal)

	if err != nil {
		return nil, fmt.Errorf("error creating view transformer: %w", err)
	}

	est, err := estimator.New(p)

	if err != nil {
		vt.Close()
		return nil, fmt.Errorf("error creating estimator: %w", err)
	}

	return &Pipeline{
		Transformer: vt,
		Estimator:   est,
	}, nil
}

// Process annotates the tracks with transformed positions and then speed
// and distance, returning the estimator outcome of each record
func (p *Pipeline) Process(tracks tracker.Tracks) []estimator.Result {
	p.Transformer.Annotate(tracks)
	return p.Estimator.Update(tracks)
}

// Close frees resources held by the transformer
func (p *Pipeline) Close() {
	p.Transformer.Close()
}
