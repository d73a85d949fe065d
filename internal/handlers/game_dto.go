package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gorilla/schema"
	"github.com/vancomm/minefield/internal/mines"
	"github.com/vancomm/minefield/internal/session"
)

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

type CreateNewGameDTO struct {
	Width     int    `schema:"width,required"`
	Height    int    `schema:"height,required"`
	MineCount int    `schema:"mine_count,required"`
	SafeZone  string `schema:"safe_zone"`
}

func ParseCreateNewGameDTO(src url.Values) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	if err := newDecoder().Decode(&dto, src); err != nil {
		return dto, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	return dto, nil
}

func (dto CreateNewGameDTO) GameParams() (mines.GameParams, error) {
	zone, err := mines.ParseSafeZone(dto.SafeZone)
	if err != nil {
		return mines.GameParams{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	params := mines.GameParams{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
		SafeZone:  zone,
	}
	return params, nil
}

type Position struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src url.Values) (Position, error) {
	var pos Position
	if err := newDecoder().Decode(&pos, src); err != nil {
		return pos, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}
	return pos, nil
}

// ParseHighscoreFilter reads either a seed ("width:height:mines:zone") or
// the width, height and mine_count params, plus an optional limit.
func ParseHighscoreFilter(src url.Values) (session.HighscoreFilter, error) {
	var filter session.HighscoreFilter

	if src.Has("limit") {
		limit, err := strconv.Atoi(src.Get("limit"))
		if err != nil || limit < 0 {
			return filter, fmt.Errorf("%w: limit must be a non-negative integer", ErrBadQuery)
		}
		filter.Limit = limit
	}

	switch {
	case src.Has("seed"):
		params, err := mines.ParseSeed(src.Get("seed"))
		if err != nil {
			return filter, fmt.Errorf("%w: %w", ErrBadQuery, err)
		}
		filter.GameParams = params
	case src.Has("width"), src.Has("height"), src.Has("mine_count"):
		dto, err := ParseCreateNewGameDTO(src)
		if err != nil {
			return filter, err
		}
		params, err := dto.GameParams()
		if err != nil {
			return filter, err
		}
		filter.GameParams = &params
	}

	return filter, nil
}

type GameSessionDTO struct {
	GameSessionId string     `json:"session_id"`
	Grid          mines.Grid `json:"grid"`
	Width         int        `json:"width"`
	Height        int        `json:"height"`
	MineCount     int        `json:"mine_count"`
	SafeZone      string     `json:"safe_zone"`
	State         string     `json:"state"`
	Active        bool       `json:"active"`
	Won           bool       `json:"won"`
	Revealed      int        `json:"revealed"`
	Flags         int        `json:"flags"`
	StartedAt     int64      `json:"started_at"`
	EndedAt       *int64     `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(snap session.Snapshot) GameSessionDTO {
	var endedAt *int64
	if snap.EndedAt != nil {
		e := snap.EndedAt.UnixMilli()
		endedAt = &e
	}
	return GameSessionDTO{
		GameSessionId: snap.ID,
		Grid:          snap.Grid,
		Width:         snap.Params.Width,
		Height:        snap.Params.Height,
		MineCount:     snap.Params.MineCount,
		SafeZone:      snap.Params.SafeZone.String(),
		State:         snap.State.String(),
		Active:        snap.State == mines.Unstarted || snap.State == mines.Active,
		Won:           snap.State == mines.Won,
		Revealed:      snap.Revealed,
		Flags:         snap.Flags,
		StartedAt:     snap.StartedAt.UnixMilli(),
		EndedAt:       endedAt,
	}
}

// NewGameDTO is the reply to a new game: the session plus the bearer token
// required to play it.
type NewGameDTO struct {
	GameSessionDTO
	Token string `json:"token"`
}
