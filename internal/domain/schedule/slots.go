package schedule

import "sort"

// ResourceLoad é a ocupação de um recurso finito no dia, para o filtro
// de capacidade durante a geração de slots.
type ResourceLoad struct {
	Capacity int
	Busy     []Window
}

// SlotInput reúne tudo que a geração de um dia precisa. A função é pura:
// reler o estado e chamar de novo produz a mesma sequência.
type SlotInput struct {
	Windows []Window

	DurationMin     int
	BufferBeforeMin int
	BufferAfterMin  int
	IncrementMin    int

	UseFixedIncrement bool
	AllowSquished     bool
	AllowEndsAfter    bool

	// Limites de política para o início do candidato, em minutos do dia.
	EarliestMin int
	LatestMin   int

	// Intervalos ocupados (reservas reais + overrides bloqueantes do
	// escopo), sem expansão de buffer.
	Busy []Window

	Resources []ResourceLoad
}

// GenerateSlots enumera os slots-âncora reserváveis do dia em ordem
// crescente de início.
func GenerateSlots(in SlotInput) []Window {
	if in.DurationMin <= 0 {
		return nil
	}

	step := in.IncrementMin
	if !in.UseFixedIncrement || step <= 0 {
		step = in.DurationMin
	}

	seen := make(map[int]bool)
	var candidates []int

	// Âncoras na grade de incrementos.
	for _, w := range in.Windows {
		t := w.StartMin
		if in.UseFixedIncrement && in.IncrementMin > 0 {
			t = alignUp(t, in.IncrementMin)
		}
		for ; t < w.EndMin; t += step {
			if !in.fitsWindow(t, w) {
				continue
			}
			if !seen[t] {
				seen[t] = true
				candidates = append(candidates, t)
			}
		}
	}

	// Âncoras "squished": encostadas nas bordas de buffer das reservas
	// existentes, fora da grade.
	if in.AllowSquished {
		for _, b := range in.Busy {
			for _, t := range []int{
				b.EndMin + in.BufferBeforeMin,
				b.StartMin - in.BufferAfterMin - in.DurationMin,
			} {
				if t < 0 || seen[t] {
					continue
				}
				if !in.anyWindowFits(t) {
					continue
				}
				seen[t] = true
				candidates = append(candidates, t)
			}
		}
	}

	sort.Ints(candidates)

	var slots []Window
	for _, t := range candidates {
		if t < in.EarliestMin || t > in.LatestMin {
			continue
		}
		if in.conflicts(t) {
			continue
		}
		slots = append(slots, Window{StartMin: t, EndMin: t + in.DurationMin})
	}
	return slots
}

func alignUp(t, inc int) int {
	if r := t % inc; r != 0 {
		return t + inc - r
	}
	return t
}

// fitsWindow: o slot cabe na janela, ou pode terminar depois dela quando
// allow_ends_after_availability permite (desde que comece dentro).
func (in *SlotInput) fitsWindow(t int, w Window) bool {
	if t < w.StartMin {
		return false
	}
	if t+in.DurationMin <= w.EndMin {
		return true
	}
	return in.AllowEndsAfter && t < w.EndMin
}

func (in *SlotInput) anyWindowFits(t int) bool {
	for _, w := range in.Windows {
		if in.fitsWindow(t, w) {
			return true
		}
	}
	return false
}

// conflicts aplica o mesmo teste meio-aberto do detector: candidato
// expandido pelos buffers contra cada intervalo ocupado, e capacidade
// dos recursos.
func (in *SlotInput) conflicts(t int) bool {
	ps := t - in.BufferBeforeMin
	pe := t + in.DurationMin + in.BufferAfterMin

	for _, b := range in.Busy {
		if ps < b.EndMin && pe > b.StartMin {
			return true
		}
	}

	for _, res := range in.Resources {
		if res.Capacity <= 0 {
			continue
		}
		count := 0
		for _, b := range res.Busy {
			if ps < b.EndMin && pe > b.StartMin {
				count++
			}
		}
		if count >= res.Capacity {
			return true
		}
	}

	return false
}
