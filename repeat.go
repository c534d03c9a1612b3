package xml2ly

type (
	// Repeat is a repeated section of a voice: a common part played every
	// time, followed by zero or more alternate endings. Repeats are built
	// incrementally as the document is read; Phase tells which part of the
	// repeat new voice content goes to.
	Repeat struct {
		Times      int
		CommonPart *RepeatCommonPart
		Endings    []*RepeatEnding
		Phase      RepeatPhase `yaml:"-"`

		endingCount int
	}

	RepeatCommonPart struct {
		Content []VoiceElement
	}

	// RepeatEnding is an alternate ending. Number is the ending number as
	// displayed, e.g. "1" or "1, 2", so it does not identify the ending;
	// Sequence is the 1-based position of the ending in document order.
	RepeatEnding struct {
		Number   string
		Kind     RepeatEndingKind
		Sequence int
		Content  []VoiceElement
	}

	// RepeatPhase is the build phase of a Repeat. Phases only move forward:
	// JustCreated, InCommonPart, InEndings, Completed.
	RepeatPhase int

	// RepeatEndingKind tells whether the bracket of an ending has a
	// downward jog at its end.
	RepeatEndingKind int
)

const (
	RepeatJustCreated RepeatPhase = iota
	RepeatInCommonPart
	RepeatInEndings
	RepeatCompleted
)

const (
	EndingHooked RepeatEndingKind = iota
	EndingHookless
)

var repeatPhaseNames = []string{"JustCreated", "InCommonPart", "InEndings", "Completed"}

func (p RepeatPhase) String() string {
	if p < 0 || int(p) >= len(repeatPhaseNames) {
		return "Unknown"
	}
	return repeatPhaseNames[p]
}

func (k RepeatEndingKind) String() string {
	if k == EndingHookless {
		return "hookless"
	}
	return "hooked"
}

func (k RepeatEndingKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// NewRepeat returns a repeat in phase JustCreated. A times value below 2 is
// taken as 2.
func NewRepeat(times int) *Repeat {
	if times < 2 {
		times = 2
	}
	return &Repeat{Times: times}
}

// SetCommonPart creates the common part and moves the repeat to
// InCommonPart. It is only legal on a repeat that was just created.
func (r *Repeat) SetCommonPart() error {
	if r.Phase != RepeatJustCreated {
		return Structural(0, "repeat common part set in phase %v", r.Phase)
	}
	r.CommonPart = &RepeatCommonPart{}
	r.Phase = RepeatInCommonPart
	return nil
}

// AddEnding appends an alternate ending and moves the repeat to InEndings.
// The ending gets the next sequence number. Endings, hooked or hookless, are
// only legal after the common part has been set; the kind of an ending is
// usually only known when it stops, so it can be set later.
func (r *Repeat) AddEnding(e *RepeatEnding) error {
	if r.Phase != RepeatInCommonPart && r.Phase != RepeatInEndings {
		return Structural(0, "repeat ending %q added in phase %v", e.Number, r.Phase)
	}
	r.endingCount++
	e.Sequence = r.endingCount
	r.Endings = append(r.Endings, e)
	r.Phase = RepeatInEndings
	return nil
}

// Complete closes the repeat; no content can be added afterwards.
func (r *Repeat) Complete() error {
	if r.Phase != RepeatInCommonPart && r.Phase != RepeatInEndings {
		return Structural(0, "repeat completed in phase %v", r.Phase)
	}
	r.Phase = RepeatCompleted
	return nil
}

// LastEnding returns the most recently added ending, or nil.
func (r *Repeat) LastEnding() *RepeatEnding {
	if len(r.Endings) == 0 {
		return nil
	}
	return r.Endings[len(r.Endings)-1]
}

// target returns the content list new voice content goes to in the current
// phase.
func (r *Repeat) target() (*[]VoiceElement, error) {
	switch r.Phase {
	case RepeatInCommonPart:
		return &r.CommonPart.Content, nil
	case RepeatInEndings:
		return &r.LastEnding().Content, nil
	}
	return nil, Structural(0, "repeat content appended in phase %v", r.Phase)
}

// AppendSegment adds a segment to the common part or to the last ending,
// depending on the phase.
func (r *Repeat) AppendSegment(s *Segment) error {
	t, err := r.target()
	if err != nil {
		return err
	}
	*t = append(*t, s)
	return nil
}

// AppendMeasure adds a measure to the last segment of the common part or of
// the last ending, depending on the phase.
func (r *Repeat) AppendMeasure(m *Measure) error {
	t, err := r.target()
	if err != nil {
		return err
	}
	*t = appendMeasure(*t, m)
	return nil
}

// AppendRepeat nests a repeat in the common part or in the last ending,
// depending on the phase.
func (r *Repeat) AppendRepeat(nested *Repeat) error {
	if nested == r {
		return Structural(0, "repeat nested in itself")
	}
	t, err := r.target()
	if err != nil {
		return err
	}
	*t = append(*t, nested)
	return nil
}

// TakeTrailingContent removes and returns the content of the current phase
// that follows the last nested repeat, or all of it if there is none.
func (r *Repeat) TakeTrailingContent() ([]VoiceElement, error) {
	t, err := r.target()
	if err != nil {
		return nil, err
	}
	var taken []VoiceElement
	*t, taken = splitAfterLastRepeat(*t)
	return taken, nil
}

// TakeTrailingContent removes and returns the voice content following the
// last repeat of the voice, or all of it if the voice has no repeats.
func (v *Voice) TakeTrailingContent() []VoiceElement {
	var taken []VoiceElement
	v.Content, taken = splitAfterLastRepeat(v.Content)
	return taken
}

func splitAfterLastRepeat(content []VoiceElement) (kept, taken []VoiceElement) {
	i := len(content)
	for i > 0 {
		if _, ok := content[i-1].(*Repeat); ok {
			break
		}
		i--
	}
	taken = append([]VoiceElement(nil), content[i:]...)
	return content[:i], taken
}
