package main

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/swdee/go-autoaim"
	"github.com/swdee/go-autoaim/logger"
	"github.com/swdee/go-autoaim/postprocess"
	"github.com/swdee/go-autoaim/preprocess"
	"github.com/swdee/go-autoaim/render"
	"github.com/swdee/go-autoaim/tracker"
	"gocv.io/x/gocv"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	imgFile := flag.String("i", "../data/armor.jpg", "Camera frame the tensor was inferred from")
	tensorFile := flag.String("t", "../data/armor-416-416.bin", "Raw armor model output tensor, little endian")
	fp16 := flag.Bool("fp16", false, "Tensor file holds float16 instead of float32 values")
	posesFile := flag.String("a", "../data/armor-poses.json", "JSON list of armor poses, one per detection in detection order")
	paramsFile := flag.String("c", "", "YAML parameters file, defaults are used when empty")
	labelFile := flag.String("l", "", "Text file of armor class labels")
	frames := flag.Int("n", 30, "Number of times to replay the frame through the tracker")
	period := flag.Duration("period", 10*time.Millisecond, "Interval between replayed frames")
	speed := flag.Float64("speed", 0, "Measured muzzle speed in m/s, 0 keeps the configured speed")
	queueSize := flag.Int("q", 4, "Frame queue size")
	cores := flag.String("cores", "", "Comma separated CPU cores to pin to, eg: 4,5,6,7")
	saveFile := flag.String("o", "../data/armor-out.jpg", "The output JPG file with armors rendered")
	logLevel := flag.String("log-level", "info", "Log level [debug|info|warn|error]")
	logJSON := flag.Bool("log-json", false, "Log in JSON format")

	flag.Parse()

	if err := logger.Initialize(*logJSON, *logLevel); err != nil {
		log.Fatal("Error initializing logger: ", err)
	}

	defer logger.Sync()

	if *cores != "" {
		// keep main on the pinned thread
		runtime.LockOSThread()

		if err := autoaim.SetCPUAffinity(parseCores(*cores)); err != nil {
			log.Fatal("Error setting CPU affinity: ", err)
		}
	}

	params := autoaim.DefaultParams()

	if *paramsFile != "" {
		var err error
		params, err = autoaim.LoadParams(*paramsFile)

		if err != nil {
			log.Fatal("Error loading parameters: ", err)
		}
	}

	if *labelFile != "" {
		labels, err := autoaim.LoadLabels(*labelFile)

		if err != nil {
			log.Fatal("Error loading class labels: ", err)
		}

		params.Detector.ClassLabels = labels
	}

	// load image
	img := gocv.IMRead(*imgFile, gocv.IMReadColor)

	if img.Empty() {
		log.Fatal("Error reading image from: ", *imgFile)
	}

	defer img.Close()

	// letterbox the frame the way it was prepared for inference, which also
	// gives the transform back onto the source frame
	resizer := preprocess.NewResizer(img.Cols(), img.Rows(),
		params.Detector.InputWidth, params.Detector.InputHeight)

	defer resizer.Close()

	rgbImg := gocv.NewMat()
	defer rgbImg.Close()
	gocv.CvtColor(img, &rgbImg, gocv.ColorBGRToRGB)

	inputImg := gocv.NewMat()
	defer inputImg.Close()
	resizer.LetterBoxResize(rgbImg, &inputImg, render.Black)

	log.Printf("Letterbox scale %.4f, pad (%d, %d)\n",
		resizer.ScaleFactor(), resizer.XPad(), resizer.YPad())

	tensor, err := readTensor(*tensorFile, *fp16, params.Detector.FieldLen())

	if err != nil {
		log.Fatal("Error reading tensor: ", err)
	}

	poses, err := readPoses(*posesFile, img.Cols(), img.Rows())

	if err != nil {
		log.Fatal("Error reading armor poses: ", err)
	}

	pipeline, err := autoaim.NewPipeline(params, poses)

	if err != nil {
		log.Fatal("Error creating pipeline: ", err)
	}

	if *speed > 0 {
		pipeline.Node().HandleVelocity(autoaim.Velocity{Stamp: time.Now(), Speed: *speed})
	}

	queue := autoaim.NewFrameQueue(*queueSize, autoaim.DropOldest)
	outputs := make(chan autoaim.Output)
	errc := make(chan error, 1)

	go func() {
		errc <- pipeline.Run(context.Background(), queue.Frames(), outputs)
	}()

	go func() {
		defer queue.Close()

		start := time.Now()

		for seq := 0; seq < *frames; seq++ {
			queue.Push(autoaim.Frame{
				Seq:       uint64(seq),
				Stamp:     start.Add(time.Duration(seq) * *period),
				Width:     img.Cols(),
				Height:    img.Rows(),
				Tensor:    tensor,
				Transform: resizer.TransformMatrix(),
			})
		}
	}()

	var last autoaim.Output

	for out := range outputs {
		printOutput(out)
		last = out
	}

	if err := <-errc; err != nil {
		log.Fatal("Pipeline failed: ", err)
	}

	log.Printf("Frames dropped: %d\n", queue.Dropped())

	// render the armors of the frame with the final tracker state
	objs, err := pipeline.Detector().Detect(tensor, resizer.TransformMatrix(),
		img.Cols(), img.Rows())

	if err != nil {
		log.Fatal("Error detecting armors: ", err)
	}

	trackedID := ""
	if last.Target.Tracking {
		trackedID = last.Target.ID
	}

	render.Armors(&img, objs, trackedID, render.DefaultArmorStyle())
	render.Crosshair(&img, image.Pt(img.Cols()/2, img.Rows()/2), 10, render.White, 1)

	// Save the result
	if ok := gocv.IMWrite(*saveFile, img); !ok {
		log.Println("Failed to save the image")
	}

	log.Println("done")
}

func printOutput(out autoaim.Output) {

	t := out.Target

	if !out.HasAim {
		fmt.Printf("%s tracking=false id=%q\n", t.Stamp.Format("15:04:05.000"), t.ID)
		return
	}

	fmt.Printf("%s id=%s armors=%s centre=(%.3f %.3f %.3f) v=(%.3f %.3f %.3f) "+
		"yaw=%.3f vyaw=%.3f r=(%.3f %.3f) aim pitch=%.2f yaw=%.2f deg face=%d\n",
		t.Stamp.Format("15:04:05.000"), t.ID, t.ArmorsNum,
		t.Position.X, t.Position.Y, t.Position.Z,
		t.Velocity.X, t.Velocity.Y, t.Velocity.Z,
		t.Yaw, t.VYaw, t.Radius1, t.Radius2,
		out.Aim.Pitch*180/math.Pi, out.Aim.Yaw*180/math.Pi, out.Aim.Face)
}

// recordedPoses stands in for PnP by returning poses recorded for the frame
type recordedPoses struct {
	armors        []tracker.Armor
	width, height float64
}

// EstimatePoses assigns the recorded poses to detections in order and
// measures each detection's distance to the image centre
func (r *recordedPoses) EstimatePoses(objs []postprocess.ArmorObject) []tracker.Armor {

	n := min(len(objs), len(r.armors))
	armors := make([]tracker.Armor, n)

	for i := 0; i < n; i++ {
		a := r.armors[i]
		a.Number = objs[i].Label

		cx := (objs[i].Rect.Left + objs[i].Rect.Right) / 2
		cy := (objs[i].Rect.Top + objs[i].Rect.Bottom) / 2
		a.DistanceToImageCenter = math.Hypot(cx-r.width/2, cy-r.height/2)

		armors[i] = a
	}

	return armors
}

func readPoses(file string, width, height int) (*recordedPoses, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, err
	}

	var armors []tracker.Armor

	if err := json.Unmarshal(data, &armors); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", file, err)
	}

	return &recordedPoses{
		armors: armors,
		width:  float64(width),
		height: float64(height),
	}, nil
}

func readTensor(file string, fp16 bool, fieldLen int) (*postprocess.Tensor, error) {

	data, err := os.ReadFile(file)

	if err != nil {
		return nil, err
	}

	if fp16 {
		bits := make([]uint16, len(data)/2)

		for i := range bits {
			bits[i] = binary.LittleEndian.Uint16(data[i*2:])
		}

		return postprocess.NewTensorFromFloat16(bits, fieldLen)
	}

	values := make([]float32, len(data)/4)

	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	return postprocess.NewTensor(values, fieldLen)
}

func parseCores(s string) []int {

	var cores []int

	for _, field := range strings.Split(s, ",") {
		core, err := strconv.Atoi(strings.TrimSpace(field))

		if err != nil {
			log.Fatal("Invalid CPU core: ", field)
		}

		cores = append(cores, core)
	}

	return cores
}
