package bot

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Spok95/nutrition-calc/internal/domain/meal"
)

// «рис 200», «white rice: 150g», «dal 80 гр»
var itemRe = regexp.MustCompile(`(?i)^(.*?)[\s:]+(\d+(?:\.\d+)?)\s*(g|gr|grams?|г|гр)?\.?$`)

// ParseMeal разбирает текст сообщения: позиции через перевод строки, запятую или «;».
// Одинаковые названия складываются.
func ParseMeal(text string) (meal.Request, error) {
	req := meal.Request{}
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		m := itemRe.FindStringSubmatch(part)
		if m == nil {
			return nil, &meal.RequestFormatError{Field: part, Reason: "ожидается «название граммы»"}
		}
		name := strings.Join(strings.Fields(m[1]), " ")
		if name == "" {
			return nil, &meal.RequestFormatError{Field: part, Reason: "не указано название"}
		}
		qty, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return nil, &meal.RequestFormatError{Field: part, Reason: "некорректный вес"}
		}
		req[name] += qty
	}
	if len(req) == 0 {
		return nil, &meal.RequestFormatError{Reason: "нет ни одной позиции"}
	}
	return req, nil
}
