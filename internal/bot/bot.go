// Package bot drives the tracker from Telegram chat commands.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"

	"tasktracker/internal/app"
	"tasktracker/internal/logger"
	"tasktracker/internal/models"
	"tasktracker/internal/view"
)

// Dispatcher is the part of *app.App the bot needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd app.Command) (app.Result, error)
	Snapshot() app.Result
}

// Sender delivers replies. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api    *tgbotapi.BotAPI
	sender Sender
	app    Dispatcher
}

// New connects to Telegram with token.
func New(token string, debug bool, d Dispatcher) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	api.Debug = debug
	logger.Info(context.Background(), "Authorized", "user", api.Self.UserName)

	return &Bot{api: api, sender: api, app: d}, nil
}

// NewWithSender builds a bot that is not connected to Telegram and sends
// replies through s.
func NewWithSender(s Sender, d Dispatcher) *Bot {
	return &Bot{sender: s, app: d}
}

// Run polls for updates until ctx is cancelled. Messages are handled one at
// a time so that list numbers stay meaningful between commands.
func (b *Bot) Run(ctx context.Context) error {
	if b.api == nil {
		return fmt.Errorf("bot is not connected")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("failed to get updates: %w", err)
	}
	defer b.api.StopReceivingUpdates()

	logger.Info(ctx, "Bot is listening")
	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.HandleMessage(ctx, update.Message.Chat.ID, update.Message.Text)
		}
	}
}

// HandleMessage answers one chat message.
func (b *Bot) HandleMessage(ctx context.Context, chatID int64, text string) {
	ctx = logger.WithFields(ctx, "chat", chatID)
	logger.Debug(ctx, "Message received", "text", text)

	reply := b.Reply(ctx, text)
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
		logger.Error(ctx, err, "Failed to send reply")
	}
}

// Reply runs the command in text and returns the answer.
func (b *Bot) Reply(ctx context.Context, text string) string {
	name, args := splitCommand(text)

	switch name {
	case "start":
		return welcomeText
	case "help":
		return helpText
	case "list":
		return b.list(args)
	case "completed":
		return completedText(b.app.Snapshot().Completed)
	case "add":
		return b.add(ctx, args)
	case "done":
		return b.indexed(ctx, app.ActionComplete, args)
	case "remove":
		return b.indexed(ctx, app.ActionRemove, args)
	case "clear":
		return b.dispatch(ctx, app.Command{Action: app.ActionClearCompleted})
	case "sort":
		return b.sort(ctx, args)
	case "":
		return "Send a command. Use /help to list them."
	}
	return "Unknown command. Use /help to list them."
}

// list shows the active tasks, optionally only those of one priority.
// Numbers always refer to the full list.
func (b *Bot) list(args string) string {
	tasks := b.app.Snapshot().Active
	if args == "" {
		return listText(tasks)
	}

	p, err := models.ParsePriority(args)
	if err != nil {
		return "Usage: /list [high|medium|low]"
	}
	positions := models.PositionsWithPriority(tasks, p)
	if len(positions) == 0 {
		return "📭 No " + string(p) + " tasks"
	}

	var sb strings.Builder
	sb.WriteString("📋 " + string(p) + " tasks:\n")
	for _, i := range positions {
		sb.WriteString(priorityEmoji(p) + " " + view.ActiveRow(i, tasks[i]) + "\n")
	}
	return sb.String()
}

func (b *Bot) add(ctx context.Context, args string) string {
	parts := strings.Split(args, "|")
	if len(parts) != 4 {
		return "Usage: /add name | description | YYYY-MM-DD | priority"
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return b.dispatch(ctx, app.Command{
		Action:      app.ActionAdd,
		Name:        parts[0],
		Description: parts[1],
		DueDate:     parts[2],
		Priority:    parts[3],
	})
}

// indexed runs an action on the 1-based task number shown by /list.
func (b *Bot) indexed(ctx context.Context, action app.Action, args string) string {
	cmd := app.Command{Action: action}
	if args != "" {
		n, err := strconv.Atoi(args)
		if err != nil {
			return "Task number must be a number, e.g. /" + commandFor(action) + " 1"
		}
		cmd.Index = app.Select(n - 1)
	}
	return b.dispatch(ctx, cmd)
}

func commandFor(action app.Action) string {
	if action == app.ActionComplete {
		return "done"
	}
	return "remove"
}

func (b *Bot) sort(ctx context.Context, args string) string {
	switch strings.ToLower(args) {
	case "due", "due_date", "":
		return b.dispatch(ctx, app.Command{Action: app.ActionSortDueDate})
	case "priority":
		return b.dispatch(ctx, app.Command{Action: app.ActionSortPriority})
	}
	return "Usage: /sort due|priority"
}

func (b *Bot) dispatch(ctx context.Context, cmd app.Command) string {
	res, err := b.app.Dispatch(ctx, cmd)
	if err != nil {
		return "❌ " + res.Status
	}
	if !res.OK {
		return "⚠️ " + res.Status
	}

	switch cmd.Action {
	case app.ActionSortDueDate, app.ActionSortPriority:
		return "✅ " + res.Status + "\n\n" + listText(res.Active)
	}
	return "✅ " + res.Status
}

// splitCommand returns the command name without the leading slash or a
// @botname suffix, and the trimmed arguments.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}

	name, args, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(args)
}

func priorityEmoji(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "🔴"
	case models.PriorityMedium:
		return "🟡"
	case models.PriorityLow:
		return "🔵"
	}
	return "⚪"
}

func listText(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "📭 No tasks"
	}

	var sb strings.Builder
	sb.WriteString("📋 Tasks:\n")
	for i, t := range tasks {
		sb.WriteString(priorityEmoji(t.Priority) + " " + view.ActiveRow(i, t) + "\n")
	}
	return sb.String()
}

func completedText(tasks []models.CompletedTask) string {
	if len(tasks) == 0 {
		return "📭 No completed tasks"
	}

	var sb strings.Builder
	sb.WriteString("✅ Completed:\n")
	for _, row := range view.CompletedRows(tasks) {
		sb.WriteString(row + "\n")
	}
	return sb.String()
}

const welcomeText = `🎯 Welcome to the task tracker!

Add a task:
/add Buy milk | 2% milk | 2024-01-15 | High

Then /list to see it and /done 1 to complete it. /help lists every command.`

const helpText = `🤖 Commands

/add name | description | YYYY-MM-DD | priority - add a task
/list [priority] - show active tasks
/completed - show completed tasks
/done N - mark task N as completed
/remove N - remove task N
/clear - clear completed tasks
/sort due|priority - sort active tasks
/help - show this help`
