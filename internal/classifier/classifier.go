// Package classifier wraps the TensorFlow Lite plant disease model.
package classifier

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	tflite "github.com/tphakala/go-tflite"
	"github.com/tphakala/go-tflite/delegates/xnnpack"

	"github.com/Preetham2004H/plant-ml/internal/conf"
	"github.com/Preetham2004H/plant-ml/internal/errors"
	"github.com/Preetham2004H/plant-ml/internal/logging"
)

// Classifier holds the TFLite interpreter for the disease model. Access to
// the interpreter is serialized, the TFLite C API is not safe for
// concurrent invocation on one interpreter.
type Classifier struct {
	interpreter *tflite.Interpreter
	settings    *conf.Settings
	numClasses  int
	log         *slog.Logger
	mu          sync.Mutex
}

// New loads the model file referenced by the configuration and prepares an
// interpreter for it. The output dimension must match the catalog size.
func New(settings *conf.Settings, numClasses int) (*Classifier, error) {
	c := &Classifier{
		settings:   settings,
		numClasses: numClasses,
		log:        logging.ForService("classifier"),
	}

	if err := c.initializeModel(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Classifier) initializeModel() error {
	modelPath := c.settings.Classifier.ModelPath
	modelData, err := os.ReadFile(modelPath)
	if err != nil {
		return errors.New(err).
			Component("classifier").
			Category(errors.CategoryModelLoad).
			Context("model_path", modelPath).
			Build()
	}

	model := tflite.NewModel(modelData)
	if model == nil {
		return errors.Newf("cannot load TensorFlow Lite model").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("model_path", modelPath).
			Context("model_size_mb", len(modelData)/1024/1024).
			Build()
	}

	threads := c.determineThreadCount()

	options := tflite.NewInterpreterOptions()
	if c.settings.Classifier.UseXNNPACK {
		delegate := xnnpack.New(xnnpack.DelegateOptions{NumThreads: int32(max(1, threads-1))})
		if delegate == nil {
			c.log.Warn("Failed to create XNNPACK delegate, falling back to default CPU")
			options.SetNumThread(threads)
		} else {
			options.AddDelegate(delegate)
			options.SetNumThread(1)
		}
	} else {
		options.SetNumThread(threads)
	}

	c.interpreter = tflite.NewInterpreter(model, options)
	if c.interpreter == nil {
		return errors.Newf("cannot create interpreter").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("model_path", modelPath).
			Build()
	}
	if status := c.interpreter.AllocateTensors(); status != tflite.OK {
		return errors.Newf("tensor allocation failed").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("model_path", modelPath).
			Build()
	}

	// Validate the output dimension against the catalog before serving
	// any predictions.
	outputTensor := c.interpreter.GetOutputTensor(0)
	if outputTensor == nil {
		return errors.Newf("cannot get output tensor").
			Component("classifier").
			Category(errors.CategoryModelInit).
			Build()
	}
	outputSize := outputTensor.Dim(outputTensor.NumDims() - 1)
	if outputSize != c.numClasses {
		return errors.Newf("model output size %d does not match catalog size %d", outputSize, c.numClasses).
			Component("classifier").
			Category(errors.CategoryModelInit).
			Context("model_path", modelPath).
			Build()
	}

	// The model data is no longer needed, TFLite keeps its own copy
	runtime.GC()

	c.log.Info("Disease model initialized",
		"model_path", modelPath,
		"classes", c.numClasses,
		"threads", threads)
	return nil
}

// determineThreadCount returns the configured thread count, defaulting to
// the number of CPUs when unset.
func (c *Classifier) determineThreadCount() int {
	configured := c.settings.Classifier.Threads
	if configured > 0 && configured <= runtime.NumCPU() {
		return configured
	}
	return runtime.NumCPU()
}

// Predict runs inference on a normalized NHWC image tensor and returns the
// probability vector over the full class set.
func (c *Classifier) Predict(tensor []float32) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	inputTensor := c.interpreter.GetInputTensor(0)
	if inputTensor == nil {
		return nil, fmt.Errorf("cannot get input tensor")
	}

	input := inputTensor.Float32s()
	if len(input) != len(tensor) {
		return nil, errors.Newf("input tensor size %d does not match sample size %d", len(input), len(tensor)).
			Component("classifier").
			Category(errors.CategoryInference).
			Build()
	}
	copy(input, tensor)

	if status := c.interpreter.Invoke(); status != tflite.OK {
		return nil, errors.Newf("tensor invoke failed: %v", status).
			Component("classifier").
			Category(errors.CategoryInference).
			Build()
	}

	outputTensor := c.interpreter.GetOutputTensor(0)
	if outputTensor == nil {
		return nil, fmt.Errorf("cannot get output tensor")
	}

	probabilities := make([]float32, c.numClasses)
	copy(probabilities, outputTensor.Float32s())
	return probabilities, nil
}
