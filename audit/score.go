package audit

const maxScore = 100

// Score is a fixed point-additive rating of a result in [0, 100].
// Page-level points come from the homepage only.
func Score(result *Result) int {
	if result == nil {
		return 0
	}

	score := 0
	if result.Technical.HasRobotsTxt {
		score += 5
	}
	if result.Technical.HasSitemap {
		score += 5
	}

	if home, ok := result.Homepage(); ok {
		score += homepagePoints(home)
	}

	if result.Search != nil && result.Search.Success {
		score += 10
	}
	if result.Traffic != nil && result.Traffic.Success {
		score += 10
	}

	return min(score, maxScore)
}

func homepagePoints(home PageRecord) int {
	points := bandPoints(home.TitleLength, titleIdeal, titleAcceptable) +
		bandPoints(home.MetaLength, metaIdeal, metaAcceptable)

	if home.H1Count == 1 {
		points += 5
	}

	switch LoadLabel(home.LoadTimeSeconds) {
	case labelGood:
		points += 5
	case labelNeedsWork:
		points += 3
	}

	if len(home.SchemaTypes) > 0 {
		points += 10
	}
	if home.Elements.HasCanonical {
		points += 5
	}
	if home.Elements.HasOpenGraph {
		points += 5
	}
	if home.Elements.HasVerification {
		points += 5
	}

	if total := home.Resources.TotalImages; total > 0 {
		withAlt := total - home.Resources.ImagesWithoutAlt
		points += withAlt * 5 / total
	}

	return points
}

func bandPoints(length int, ideal, acceptable lengthRange) int {
	switch {
	case ideal.contains(length):
		return 10
	case acceptable.contains(length):
		return 5
	default:
		return 0
	}
}
