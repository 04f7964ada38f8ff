package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	courtspeed "github.com/swdee/go-courtspeed"
	"github.com/swdee/go-courtspeed/estimator"
	"github.com/swdee/go-courtspeed/tracker"
	"github.com/swdee/go-courtspeed/transform"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// Demo defines the struct for running speed and distance estimation over a
// video and its tracker results
type Demo struct {
	// vidBuffer buffers the video frames into memory
	vidBuffer []gocv.Mat
	// fps is the frame rate reported by the source video
	fps float64
	// tracks are the tracker results for the video
	tracks tracker.Tracks
	// pipeline performs the view transform and estimation
	pipeline *courtspeed.Pipeline
}

// NewDemo returns an instance of Demo with the video buffered and tracks
// loaded
func NewDemo(vidFile, tracksFile, paramsFile string, fps float64) (*Demo, error) {

	d := &Demo{}

	err := d.bufferVideo(vidFile)

	if err != nil {
		return nil, fmt.Errorf("Error buffering video: %w", err)
	}

	data, err := os.ReadFile(tracksFile)

	if err != nil {
		return nil, fmt.Errorf("Error reading tracks file: %w", err)
	}

	d.tracks, err = tracker.ParseTracks(data)

	if err != nil {
		return nil, fmt.Errorf("Error parsing tracks: %w", err)
	}

	params := estimator.DefaultParams()

	if paramsFile != "" {
		cfg, err := os.ReadFile(paramsFile)

		if err != nil {
			return nil, fmt.Errorf("Error reading params file: %w", err)
		}

		params, err = estimator.ParamsFromJSON(cfg)

		if err != nil {
			return nil, fmt.Errorf("Error loading params: %w", err)
		}
	}

	// the command line frame rate wins, otherwise use the video's own rate
	// unless a params file set one
	switch {
	case fps > 0:
		params.FrameRate = fps
	case d.fps > 0 && paramsFile == "":
		params.FrameRate = d.fps
	}

	log.Printf("Frames: %d, Frame rate: %.2f, Smoothing window: %d\n",
		len(d.vidBuffer), params.FrameRate, params.Window())

	d.pipeline, err = courtspeed.NewPipeline(transform.DefaultCalibration(), params)

	if err != nil {
		return nil, fmt.Errorf("Error creating pipeline: %w", err)
	}

	log.Printf("Perspective transform:\n%.6g\n",
		mat.Formatted(d.pipeline.Transformer.Matrix(), mat.Prefix(""), mat.Squeeze()))

	return d, nil
}

// bufferVideo reads in the video frames and saves them to a buffer
func (d *Demo) bufferVideo(vidFile string) error {

	// open handle to read frames of video file
	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return err
	}

	defer video.Close()

	d.fps = video.Get(gocv.VideoCaptureFPS)
	d.vidBuffer = make([]gocv.Mat, 0)

	for {
		img := gocv.NewMat()

		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			// reached last video frame
			img.Close()
			break
		}

		// Check if the frame is empty
		if img.Empty() {
			img.Close()
			continue
		}

		// push frame onto buffer
		d.vidBuffer = append(d.vidBuffer, img)
	}

	if len(d.vidBuffer) == 0 {
		return fmt.Errorf("no frames read from %s", vidFile)
	}

	return nil
}

// Run processes the tracks, renders the annotated frames and writes them to
// the output video
func (d *Demo) Run(outFile string) error {

	results := d.pipeline.Process(d.tracks)

	counts := make(map[estimator.Outcome]int)

	for _, res := range results {
		counts[res.Outcome]++
	}

	log.Printf("Records: %d, Computed: %d, Cached: %d, Seeded: %d, Skipped: %d\n",
		len(results), counts[estimator.Computed], counts[estimator.UsedCache],
		counts[estimator.Seeded], counts[estimator.Skipped])

	frames := d.pipeline.Estimator.Render(d.vidBuffer, d.tracks)

	defer func() {
		for _, img := range frames {
			img.Close()
		}
	}()

	writer, err := gocv.VideoWriterFile(outFile, "mp4v",
		d.pipeline.Estimator.Params().FrameRate,
		frames[0].Cols(), frames[0].Rows(), true)

	if err != nil {
		return fmt.Errorf("Error opening video writer: %w", err)
	}

	defer writer.Close()

	for i, img := range frames {
		if err := writer.Write(img); err != nil {
			return fmt.Errorf("Error writing frame %d: %w", i, err)
		}
	}

	return nil
}

// WriteTracks saves the annotated tracks to a JSON file
func (d *Demo) WriteTracks(file string) error {

	data, err := tracker.MarshalTracks(d.tracks)

	if err != nil {
		return fmt.Errorf("Error encoding tracks: %w", err)
	}

	return os.WriteFile(file, data, 0644)
}

// LogStats prints the movement statistics of each player
func (d *Demo) LogStats() {

	stats := d.pipeline.Estimator.Stats()

	keys := make([]tracker.EntityKey, 0, len(stats))

	for k := range stats {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Class != keys[j].Class {
			return keys[i].Class < keys[j].Class
		}
		return keys[i].TrackID < keys[j].TrackID
	})

	for _, k := range keys {
		s := stats[k]
		log.Printf("%s: distance=%.1fm avg=%.1fkm/h max=%.1fkm/h current=%.1fkm/h\n",
			k, s.TotalDistance, s.AvgSpeed, s.MaxSpeed, s.CurrentSpeed)
	}
}

// Close frees the buffered video frames and pipeline resources
func (d *Demo) Close() {
	for _, img := range d.vidBuffer {
		img.Close()
	}

	d.pipeline.Close()
}

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	vidFile := flag.String("v", "../data/match.mp4", "Video file to annotate")
	tracksFile := flag.String("t", "../data/match-tracks.json", "JSON file of tracker results for the video")
	outFile := flag.String("o", "../data/match-speed.mp4", "Output file for the annotated video")
	jsonOut := flag.String("j", "", "Optional output file for the annotated tracks JSON")
	paramsFile := flag.String("c", "", "Optional JSON file of estimator parameters")
	fps := flag.Float64("fps", 0, "Frame rate override, defaults to that of the video")

	flag.Parse()

	demo, err := NewDemo(*vidFile, *tracksFile, *paramsFile, *fps)

	if err != nil {
		log.Fatalf("Error creating demo: %v", err)
	}

	defer demo.Close()

	err = demo.Run(*outFile)

	if err != nil {
		log.Fatalf("Error running demo: %v", err)
	}

	log.Printf("Annotated video saved to %s\n", *outFile)

	if *jsonOut != "" {
		err = demo.WriteTracks(*jsonOut)

		if err != nil {
			log.Fatalf("Error saving tracks: %v", err)
		}

		log.Printf("Annotated tracks saved to %s\n", *jsonOut)
	}

	demo.LogStats()
}
