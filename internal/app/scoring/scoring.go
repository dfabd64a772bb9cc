// Pacote scoring pontua palpites contra o placar real e agrega os totais em classificação.
package scoring

import (
	"sort"

	"github.com/marcelojr/quiniela/internal/domain"
	"github.com/marcelojr/quiniela/internal/platform/logger"
)

const (
	PontosPlacarExato   = 5
	PontosUmLadoExato   = 3
	PontosEmpate        = 2
	PontosSoResultado   = 1
	PontosResultadoErro = 0
)

type Outcome int

const (
	VitoriaCasa Outcome = iota + 1
	VitoriaFora
	Empate
)

func Resultado(casa, fora int) Outcome {
	switch {
	case casa > fora:
		return VitoriaCasa
	case fora > casa:
		return VitoriaFora
	default:
		return Empate
	}
}

// Valido exige os dois lados presentes e não negativos.
func Valido(p domain.Placar) bool {
	return p.Casa != nil && p.Fora != nil && *p.Casa >= 0 && *p.Fora >= 0
}

// Pontuar é pura e determinística; a primeira regra que casar define os pontos.
// Placar inválido em qualquer lado vale zero e gera log, nunca erro.
func Pontuar(palpite, real domain.Placar) int {
	if !Valido(palpite) || !Valido(real) {
		logger.Warn("palpite invalido: placar ausente ou negativo",
			"palpite_casa", palpite.Casa, "palpite_fora", palpite.Fora,
			"real_casa", real.Casa, "real_fora", real.Fora)
		return PontosResultadoErro
	}

	pc, pf := *palpite.Casa, *palpite.Fora
	rc, rf := *real.Casa, *real.Fora

	if pc == rc && pf == rf {
		return PontosPlacarExato
	}

	previsto := Resultado(pc, pf)
	ocorrido := Resultado(rc, rf)
	if previsto != ocorrido {
		return PontosResultadoErro
	}
	if ocorrido == Empate {
		return PontosEmpate
	}
	if pc == rc || pf == rf {
		return PontosUmLadoExato
	}
	return PontosSoResultado
}

// Somar totaliza por usuário os pontos dos palpites cujas partidas pertencem ao conjunto informado.
// Usuários com palpite mas zero pontos continuam presentes no mapa.
func Somar(palpites []domain.Palpite, partidas []domain.PartidaID) map[domain.UsuarioID]int {
	pertence := make(map[domain.PartidaID]struct{}, len(partidas))
	for _, id := range partidas {
		pertence[id] = struct{}{}
	}

	totais := make(map[domain.UsuarioID]int)
	for _, p := range palpites {
		if _, ok := pertence[p.PartidaID]; !ok {
			continue
		}
		totais[p.UsuarioID] += p.Pontos
	}
	return totais
}

// Classificar ordena por pontos (desc) e desempata pelo ID do usuário (asc).
// Empatados em pontos dividem a mesma posição.
func Classificar(totais map[domain.UsuarioID]int) []domain.Colocacao {
	ranking := make([]domain.Colocacao, 0, len(totais))
	for usuario, pontos := range totais {
		ranking = append(ranking, domain.Colocacao{UsuarioID: usuario, Pontos: pontos})
	}

	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Pontos != ranking[j].Pontos {
			return ranking[i].Pontos > ranking[j].Pontos
		}
		return ranking[i].UsuarioID < ranking[j].UsuarioID
	})

	for i := range ranking {
		if i > 0 && ranking[i].Pontos == ranking[i-1].Pontos {
			ranking[i].Posicao = ranking[i-1].Posicao
			continue
		}
		ranking[i].Posicao = i + 1
	}
	return ranking
}
