package question

// Label identifies one of the four answer choices. The alphabet is fixed
// (ア, イ, ウ, エ) and maps 1:1 to option_a..option_d in that order.
type Label string

const (
	LabelA Label = "ア"
	LabelB Label = "イ"
	LabelC Label = "ウ"
	LabelD Label = "エ"
)

// Labels returns the full answer alphabet in option order.
func Labels() []Label {
	return []Label{LabelA, LabelB, LabelC, LabelD}
}

// Question is a single multiple-choice question as the client sees it.
// It is immutable once fetched; the correct answer and explanation live
// server-side only.
type Question struct {
	ID           int64  `json:"id"`
	ExamType     string `json:"exam_type"`
	Category     string `json:"category"`
	Scenario     string `json:"scenario,omitempty"`
	QuestionText string `json:"question_text"`
	OptionA      string `json:"option_a"`
	OptionB      string `json:"option_b"`
	OptionC      string `json:"option_c"`
	OptionD      string `json:"option_d"`
}

// Option is one offered answer choice.
type Option struct {
	Label Label
	Text  string
}

// Options returns the choices to offer, in fixed label order.
// An option is offered iff its text is present and non-empty.
func (q Question) Options() []Option {
	texts := []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD}

	var options []Option
	for i, label := range Labels() {
		if texts[i] == "" {
			continue
		}
		options = append(options, Option{Label: label, Text: texts[i]})
	}
	return options
}

// Verdict is the judge's decision for one submitted answer.
type Verdict struct {
	Correct       bool
	CorrectAnswer Label
	Explanation   string
}

// Exam-series filter values understood by the question source.
// An explicit series name (e.g. "第52回") is also accepted as-is.
const (
	SeriesPast = "past"
	SeriesAI   = "ai"
)

// Filter narrows a question fetch. The zero value selects the full universe.
// Filtering is done entirely by the question source; the session engine only
// shuffles and iterates whatever list it receives.
type Filter struct {
	ExamSeries string
	Category   string
	Review     bool // previously-missed questions only
}
