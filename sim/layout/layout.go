// Package layout evaluates cutting plans returned with an accepted print job.
//
// A plan is an ordered list of rug components laid along the roll. Full-width
// components ("3x5", "5x7") each take their own slot. Narrow runners ("2.5x7")
// only fill a slot when two are adjacent; a runner left without a partner
// wastes the other half of its slot. The evaluation is a single left-to-right
// pass, so reordering a plan can change its waste.
package layout

import (
	"strings"
)

// ComponentSize is the catalog tag of a rug component.
type ComponentSize string

const (
	Size3x5   ComponentSize = "3x5"
	Size5x7   ComponentSize = "5x7"
	Size2_5x7 ComponentSize = "2.5x7"
)

// UnpairedStripWaste is the material (ft) lost when a narrow strip has no
// partner: the empty half of a 7 ft slot.
const UnpairedStripWaste = 3.5

// slotLengths gives the roll length (ft) consumed by one slot of each size.
// A runner slot holds two strips.
var slotLengths = map[ComponentSize]float64{
	Size3x5:   3,
	Size5x7:   7,
	Size2_5x7: 7,
}

// SlotLength returns the roll length consumed by one slot of the given size.
// Unknown sizes report 0.
func SlotLength(size ComponentSize) float64 {
	return slotLengths[size]
}

// IsNarrowStrip reports whether size occupies half a slot.
func IsNarrowStrip(size ComponentSize) bool {
	return size == Size2_5x7
}

// Result is the outcome of evaluating one plan.
type Result struct {
	Waste     float64 // sum of unpaired strip penalties (ft)
	Slots     int     // number of slots laid out
	Unpaired  int     // number of strips left without a partner
	Length    float64 // roll length covered by the slots (ft)
	Rendering string  // three-row diagnostic drawing
}

// Evaluate walks plan left to right and reports waste and a rendering.
// Unknown component sizes are laid out as full-width slots with no waste.
func Evaluate(plan []ComponentSize) Result {
	var res Result
	r := newRenderer()
	pending := false

	flush := func() {
		if !pending {
			return
		}
		res.Waste += UnpairedStripWaste
		res.Unpaired++
		res.Slots++
		res.Length += SlotLength(Size2_5x7)
		r.pair(Size2_5x7, "")
		pending = false
	}

	for _, size := range plan {
		if IsNarrowStrip(size) {
			if pending {
				res.Slots++
				res.Length += SlotLength(size)
				r.pair(size, size)
				pending = false
			} else {
				pending = true
			}
			continue
		}
		flush()
		res.Slots++
		res.Length += SlotLength(size)
		r.full(size)
	}
	flush()

	res.Rendering = r.String()
	return res
}

// renderer builds the top border, label row and bottom border of a layout
// in step with the traversal.
type renderer struct {
	top, label, bottom strings.Builder
}

func newRenderer() *renderer {
	return &renderer{}
}

func (r *renderer) cell(text string) {
	width := len(text) + 2
	r.top.WriteString("+" + strings.Repeat("-", width))
	r.label.WriteString("| " + text + " ")
	r.bottom.WriteString("+" + strings.Repeat("-", width))
}

func (r *renderer) full(size ComponentSize) {
	r.cell(string(size))
}

// pair draws a runner slot; an empty right half marks an unpaired strip.
func (r *renderer) pair(left ComponentSize, right ComponentSize) {
	rightText := string(right)
	if right == "" {
		rightText = strings.Repeat(" ", len(left))
	}
	r.cell(string(left) + "/" + rightText)
}

func (r *renderer) String() string {
	if r.top.Len() == 0 {
		return ""
	}
	return r.top.String() + "+\n" + r.label.String() + "|\n" + r.bottom.String() + "+"
}
