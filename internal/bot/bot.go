package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/nutrition-calc/internal/dialog"
	"github.com/Spok95/nutrition-calc/internal/domain/foods"
	"github.com/Spok95/nutrition-calc/internal/domain/meal"
	"github.com/Spok95/nutrition-calc/internal/infra/metrics"
)

const maxFoodsInReply = 20

const helpText = `Считаю КБЖУ блюда по таблице продуктов (значения на 100 г).

Пришлите позиции через запятую или с новой строки:
  white rice 200, dal 150g

Команды:
/foods <часть названия> — поиск продукта
/add <позиции> — добавить в черновик блюда
/total — посчитать черновик
/reset — очистить черновик`

type Bot struct {
	api      *tgbotapi.BotAPI
	log      *slog.Logger
	table    *foods.Table
	strategy meal.Strategy
	states   dialog.Store
	metrics  *metrics.Metrics
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, table *foods.Table,
	strategy meal.Strategy, states dialog.Store, m *metrics.Metrics) *Bot {

	return &Bot{
		api: api, log: log, table: table,
		strategy: strategy, states: states, metrics: m,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd := <-updates:
			if upd.Message != nil {
				b.onMessage(ctx, upd.Message)
			}
		}
	}
}

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := b.reply(ctx, chatID, msg)
	if text == "" {
		return
	}
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

// reply строит ответ на сообщение; пустая строка — не отвечаем.
func (b *Bot) reply(ctx context.Context, chatID int64, msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		args := strings.TrimSpace(msg.CommandArguments())
		switch msg.Command() {
		case "start", "help":
			return helpText
		case "foods":
			return b.searchFoods(args)
		case "add":
			return b.addToDraft(ctx, chatID, args)
		case "total":
			return b.draftTotal(ctx, chatID)
		case "reset":
			if err := b.states.Reset(ctx, chatID); err != nil {
				b.log.Error("reset draft failed", "chat_id", chatID, "err", err)
				return "Не удалось очистить черновик, попробуйте позже."
			}
			return "Черновик очищен."
		default:
			return "Неизвестная команда. /help — список команд."
		}
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return ""
	}
	req, err := ParseMeal(text)
	if err != nil {
		b.metrics.Calculation("bot", "bad_request")
		return formatError(err)
	}
	return b.calculate(req)
}

func (b *Bot) searchFoods(fragment string) string {
	if fragment == "" {
		return "Укажите часть названия: /foods rice"
	}
	found := b.table.Find(fragment)
	if len(found) == 0 {
		return fmt.Sprintf("Ничего не найдено по «%s».", fragment)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Найдено: %d\n", len(found))
	for i, f := range found {
		if i == maxFoodsInReply {
			fmt.Fprintf(&sb, "… и ещё %d", len(found)-maxFoodsInReply)
			break
		}
		fmt.Fprintf(&sb, "• %s — %.0f ккал, Б %.1f / У %.1f / Ж %.1f на 100 г\n",
			f.Name, f.Calories, f.ProteinG, f.CarbsG, f.FatG)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) addToDraft(ctx context.Context, chatID int64, args string) string {
	req, err := ParseMeal(args)
	if err != nil {
		b.metrics.Calculation("bot", "bad_request")
		return formatError(err)
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("get draft failed", "chat_id", chatID, "err", err)
		return "Не удалось прочитать черновик, попробуйте позже."
	}
	items := dialog.GetFloatMap(st.Payload, "items")
	for name, qty := range req {
		items[name] += qty
	}
	if err := b.states.Set(ctx, chatID, dialog.StateMealDraft, dialog.Payload{"items": items}); err != nil {
		b.log.Error("save draft failed", "chat_id", chatID, "err", err)
		return "Не удалось сохранить черновик, попробуйте позже."
	}
	return fmt.Sprintf("Добавлено позиций: %d. В черновике: %d. /total — посчитать.", len(req), len(items))
}

func (b *Bot) draftTotal(ctx context.Context, chatID int64) string {
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("get draft failed", "chat_id", chatID, "err", err)
		return "Не удалось прочитать черновик, попробуйте позже."
	}
	items := dialog.GetFloatMap(st.Payload, "items")
	if st.State != dialog.StateMealDraft || len(items) == 0 {
		return "Черновик пуст. Добавьте позиции: /add rice 200"
	}
	return b.calculate(meal.Request(items))
}

func (b *Bot) calculate(req meal.Request) string {
	res := b.strategy.Breakdown(req)
	if !res.Totals.IsFinite() {
		b.metrics.Calculation("bot", "bad_request")
		return "Слишком большие веса: итог не помещается в число."
	}
	b.metrics.Calculation("bot", "ok")
	b.metrics.Lookups(len(res.Matches), len(res.Unmatched))
	return formatBreakdown(res)
}

func formatBreakdown(res meal.Breakdown) string {
	var sb strings.Builder
	for _, m := range res.Matches {
		fmt.Fprintf(&sb, "✅ %s → %s, %.0f г\n", m.Requested, m.Food, m.Grams)
	}
	for _, name := range res.Unmatched {
		fmt.Fprintf(&sb, "❌ %s — не найдено\n", name)
	}
	t := res.Totals
	fmt.Fprintf(&sb, "\nИтого:\nКалории: %.1f ккал\nБелки: %.1f г\nУглеводы: %.1f г\nЖиры: %.1f г\nКлетчатка: %.1f г",
		t.Calories, t.Protein, t.Carbs, t.Fat, t.Fiber)
	return sb.String()
}

func formatError(err error) string {
	var fe *meal.RequestFormatError
	if errors.As(err, &fe) {
		if fe.Field != "" {
			return fmt.Sprintf("Не понял «%s»: %s.", fe.Field, fe.Reason)
		}
		return fmt.Sprintf("Не понял сообщение: %s.", fe.Reason)
	}
	return "Ошибка: " + err.Error()
}
