package clock

import "time"

type SystemClock struct{}

func NewSystemClock() SystemClock {
	return SystemClock{}
}

func (SystemClock) Agora() time.Time {
	return time.Now().UTC()
}

// Fixed devolve sempre o mesmo instante; útil em ferramentas e testes que precisam de prazo estável.
type Fixed struct {
	Instante time.Time
}

func (f *Fixed) Agora() time.Time {
	return f.Instante
}

func (f *Fixed) Avancar(d time.Duration) {
	f.Instante = f.Instante.Add(d)
}
