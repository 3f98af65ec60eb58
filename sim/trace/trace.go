package trace

// GenerationTrace collects generation records during a run.
type GenerationTrace struct {
	Records []GenerationRecord
}

// NewGenerationTrace creates a GenerationTrace ready for recording.
func NewGenerationTrace() *GenerationTrace {
	return &GenerationTrace{
		Records: make([]GenerationRecord, 0),
	}
}

// Record appends a generation record.
func (gt *GenerationTrace) Record(record GenerationRecord) {
	gt.Records = append(gt.Records, record)
}

// Last returns the most recent record, or false if none was recorded.
func (gt *GenerationTrace) Last() (GenerationRecord, bool) {
	if gt == nil || len(gt.Records) == 0 {
		return GenerationRecord{}, false
	}
	return gt.Records[len(gt.Records)-1], true
}
