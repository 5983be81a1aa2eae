package dialog

import "context"

type State string

const (
	StateIdle      State = "idle"
	StateMealDraft State = "meal_draft" // копим позиции через /add
)

type Payload map[string]any

type Item struct {
	ChatID  int64
	State   State
	Payload Payload
}

// Store — хранилище состояний чатов.
type Store interface {
	Get(ctx context.Context, chatID int64) (*Item, error)
	Set(ctx context.Context, chatID int64, state State, payload Payload) error
	Reset(ctx context.Context, chatID int64) error
}

// GetFloatMap Helper для чтения map[string]float64 из payload
// (после JSON числа приходят как float64, вложенные объекты — как map[string]any).
func GetFloatMap(p Payload, key string) map[string]float64 {
	out := map[string]float64{}
	switch m := p[key].(type) {
	case map[string]float64:
		for k, v := range m {
			out[k] = v
		}
	case map[string]any:
		for k, v := range m {
			if f, ok := v.(float64); ok {
				out[k] = f
			}
		}
	}
	return out
}
