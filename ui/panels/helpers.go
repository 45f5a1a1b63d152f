package panels

import (
	"fmt"
	"math"

	"region-annotator/internal/annotation"
	"region-annotator/internal/region"
)

// describeShape summarizes an annotation's geometry for its sidebar card.
func describeShape(a annotation.Annotation) string {
	b := a.Bounds()
	switch a.Kind {
	case region.Rectangle:
		return fmt.Sprintf("Rectangle %d×%d at (%d, %d)",
			round(b.Width), round(b.Height), round(b.X), round(b.Y))
	case region.Polygon:
		return fmt.Sprintf("Polygon, %d points, %d×%d at (%d, %d)",
			len(a.Vertices), round(b.Width), round(b.Height), round(b.X), round(b.Y))
	default:
		return a.Kind.String()
	}
}

// countSummary is the header line above the annotation list.
func countSummary(total, hidden int) string {
	switch {
	case total == 0:
		return "No annotations yet"
	case total == 1 && hidden == 0:
		return "1 annotation"
	case hidden == 0:
		return fmt.Sprintf("%d annotations", total)
	default:
		return fmt.Sprintf("%d annotations (%d hidden)", total, hidden)
	}
}

func round(v float64) int {
	return int(math.Round(v))
}
