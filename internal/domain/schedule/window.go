package schedule

import (
	"fmt"
	"sort"
	"time"
)

const MinutesPerDay = 24 * 60

// Window é um intervalo meio-aberto [StartMin, EndMin) em minutos
// desde a meia-noite local.
type Window struct {
	StartMin int
	EndMin   int
}

func (w Window) Empty() bool {
	return w.EndMin <= w.StartMin
}

func (w Window) Overlaps(o Window) bool {
	return w.StartMin < o.EndMin && w.EndMin > o.StartMin
}

func (w Window) Contains(o Window) bool {
	return o.StartMin >= w.StartMin && o.EndMin <= w.EndMin
}

// ParseHM converte "15:04" em minutos desde a meia-noite.
func ParseHM(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatHM(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

func clipDay(w Window) Window {
	if w.StartMin < 0 {
		w.StartMin = 0
	}
	if w.EndMin > MinutesPerDay {
		w.EndMin = MinutesPerDay
	}
	return w
}

// MergeWindows ordena e funde janelas sobrepostas ou adjacentes,
// descartando janelas vazias e recortando para o dia.
func MergeWindows(ws []Window) []Window {
	var clean []Window
	for _, w := range ws {
		w = clipDay(w)
		if !w.Empty() {
			clean = append(clean, w)
		}
	}
	if len(clean) == 0 {
		return nil
	}

	sort.Slice(clean, func(i, j int) bool {
		if clean[i].StartMin != clean[j].StartMin {
			return clean[i].StartMin < clean[j].StartMin
		}
		return clean[i].EndMin < clean[j].EndMin
	})

	merged := []Window{clean[0]}
	for _, w := range clean[1:] {
		last := &merged[len(merged)-1]
		if w.StartMin <= last.EndMin {
			if w.EndMin > last.EndMin {
				last.EndMin = w.EndMin
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// SubtractWindows remove cada bloco das janelas base.
func SubtractWindows(base []Window, blocks []Window) []Window {
	result := MergeWindows(base)
	for _, b := range blocks {
		b = clipDay(b)
		if b.Empty() {
			continue
		}
		var next []Window
		for _, w := range result {
			if !w.Overlaps(b) {
				next = append(next, w)
				continue
			}
			if b.StartMin > w.StartMin {
				next = append(next, Window{StartMin: w.StartMin, EndMin: b.StartMin})
			}
			if b.EndMin < w.EndMin {
				next = append(next, Window{StartMin: b.EndMin, EndMin: w.EndMin})
			}
		}
		result = next
	}
	return result
}

// ProjectInterval projeta um intervalo absoluto em minutos do dia local,
// recortando ao dia.
func ProjectInterval(start, end, dayStart, dayEnd time.Time, loc *time.Location) Window {
	s := start.In(loc)
	e := end.In(loc)

	w := Window{StartMin: 0, EndMin: MinutesPerDay}
	if s.After(dayStart) {
		w.StartMin = s.Hour()*60 + s.Minute()
	}
	if e.Before(dayEnd) {
		w.EndMin = e.Hour()*60 + e.Minute()
	}
	if !end.After(dayStart) || !start.Before(dayEnd) {
		return Window{}
	}
	return clipDay(w)
}

// IntersectWindows interseção de dois conjuntos de janelas.
func IntersectWindows(a, b []Window) []Window {
	a = MergeWindows(a)
	b = MergeWindows(b)

	var out []Window
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		start := a[i].StartMin
		if b[j].StartMin > start {
			start = b[j].StartMin
		}
		end := a[i].EndMin
		if b[j].EndMin < end {
			end = b[j].EndMin
		}
		if start < end {
			out = append(out, Window{StartMin: start, EndMin: end})
		}
		if a[i].EndMin < b[j].EndMin {
			i++
		} else {
			j++
		}
	}
	return out
}
