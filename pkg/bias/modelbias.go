package bias

import (
	"fmt"

	"veritas-ml/aequitas/pkg/dataset"
)

// ModelBiasResult holds per-attribute, per-group classification
// performance of an external model.
type ModelBiasResult struct {
	// Performance maps attribute name to group value to metrics.
	Performance map[string]map[string]*GroupPerformance `json:"group_performance"`

	// SampleCount is the number of records the model was asked to predict.
	SampleCount int `json:"sample_count"`
}

// DetectModelBias runs the external prediction function over the batch
// and reports per-group accuracy, precision, recall and sample size for
// each protected attribute.
//
// The prediction function is called exactly once per record, or once per
// batch when Config.BatchPrediction is set. It fails with
// *PredictionError if the function returns an error or a prediction count
// that does not match the input. Only records carrying a ground-truth
// label contribute to the per-group metrics.
func (d *Detector) DetectModelBias(predict PredictFunc, batch *dataset.Batch, protectedAttributes []string) (*ModelBiasResult, error) {
	if batch == nil || batch.Len() == 0 {
		return nil, fmt.Errorf("detect model bias: batch is empty")
	}
	if predict == nil {
		return nil, fmt.Errorf("detect model bias: prediction function is nil")
	}

	parts, err := dataset.Partition(batch, protectedAttributes)
	if err != nil {
		return nil, err
	}

	predictions, err := d.runPredictions(predict, batch)
	if err != nil {
		return nil, err
	}

	result := &ModelBiasResult{
		Performance: make(map[string]map[string]*GroupPerformance, len(protectedAttributes)),
		SampleCount: batch.Len(),
	}

	for _, attr := range protectedAttributes {
		part := parts[attr]
		groupPerf := make(map[string]*GroupPerformance, len(part.Values))

		for _, value := range part.Values {
			group := part.Groups[value]

			var tp, fp, fn, correct, labeled int
			for _, idx := range group.Indices() {
				rec := batch.Record(idx)
				if rec.Label == nil {
					continue
				}
				labeled++
				label, pred := *rec.Label, predictions[idx]
				if pred == label {
					correct++
				}
				switch {
				case pred == 1 && label == 1:
					tp++
				case pred == 1 && label == 0:
					fp++
				case pred == 0 && label == 1:
					fn++
				}
			}

			perf := &GroupPerformance{SampleSize: labeled}
			if labeled > 0 {
				perf.Accuracy = float64(correct) / float64(labeled)
			}
			if tp+fp > 0 {
				perf.Precision = float64(tp) / float64(tp+fp)
			}
			if tp+fn > 0 {
				perf.Recall = float64(tp) / float64(tp+fn)
			}
			groupPerf[value] = perf
		}

		result.Performance[attr] = groupPerf
	}

	d.logger.Debug("model bias probe complete",
		"records", batch.Len(),
		"attributes", len(protectedAttributes),
	)
	return result, nil
}

// runPredictions invokes the external function for every record, batched
// or one at a time per configuration.
func (d *Detector) runPredictions(predict PredictFunc, batch *dataset.Batch) ([]int, error) {
	features := make([]map[string]any, batch.Len())
	for i := 0; i < batch.Len(); i++ {
		features[i] = batch.Record(i).Features
	}

	if d.cfg.BatchPrediction {
		predictions, err := predict(features)
		if err != nil {
			return nil, NewPredictionError(err)
		}
		if len(predictions) != len(features) {
			return nil, NewPredictionShapeError(len(features), len(predictions))
		}
		return predictions, nil
	}

	predictions := make([]int, 0, len(features))
	for i := range features {
		out, err := predict(features[i : i+1])
		if err != nil {
			return nil, NewPredictionError(err)
		}
		if len(out) != 1 {
			return nil, NewPredictionShapeError(1, len(out))
		}
		predictions = append(predictions, out[0])
	}
	return predictions, nil
}
