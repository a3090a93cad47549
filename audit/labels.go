package audit

const (
	labelGood      = "GOOD"
	labelNeedsWork = "NEEDS WORK"
	labelIssue     = "ISSUE"
	labelSlow      = "SLOW"

	fastLoadSeconds       = 2.0
	acceptableLoadSeconds = 3.0
)

type lengthRange struct {
	min int
	max int
}

func (r lengthRange) contains(n int) bool {
	return n >= r.min && n <= r.max
}

var (
	titleIdeal      = lengthRange{min: 50, max: 60}
	titleAcceptable = lengthRange{min: 30, max: 70}
	metaIdeal       = lengthRange{min: 120, max: 160}
	metaAcceptable  = lengthRange{min: 80, max: 180}
)

func lengthLabel(length int, ideal, acceptable lengthRange) string {
	switch {
	case ideal.contains(length):
		return labelGood
	case acceptable.contains(length):
		return labelNeedsWork
	default:
		return labelIssue
	}
}

// TitleLabel judges a title length: GOOD in [50,60], NEEDS WORK in [30,70], ISSUE otherwise.
func TitleLabel(length int) string {
	return lengthLabel(length, titleIdeal, titleAcceptable)
}

// MetaLabel judges a meta description length: GOOD in [120,160], NEEDS WORK in [80,180], ISSUE otherwise.
func MetaLabel(length int) string {
	return lengthLabel(length, metaIdeal, metaAcceptable)
}

// HeadingLabel judges the H1 count: exactly one is GOOD, none is an ISSUE.
func HeadingLabel(count int) string {
	switch {
	case count == 1:
		return labelGood
	case count == 0:
		return labelIssue
	default:
		return labelNeedsWork
	}
}

// LoadLabel judges a load time: under 2s is GOOD, under 3s NEEDS WORK, otherwise SLOW.
func LoadLabel(seconds float64) string {
	switch {
	case seconds < fastLoadSeconds:
		return labelGood
	case seconds < acceptableLoadSeconds:
		return labelNeedsWork
	default:
		return labelSlow
	}
}

// Band is the visual rating of a score.
type Band struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// BandFor maps a score to its rating: 80 and above is Excellent, 60 Good, 40 Needs Improvement.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return Band{Label: "Excellent", Color: "#10b981"}
	case score >= 60:
		return Band{Label: "Good", Color: "#f59e0b"}
	case score >= 40:
		return Band{Label: "Needs Improvement", Color: "#f97316"}
	default:
		return Band{Label: "Critical Issues", Color: "#ef4444"}
	}
}
