// Package render writes DogRoom records for the CLI as tables, line-delimited
// JSON or pretty-printed JSON.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dyluth/dogroom/internal/domain"
	"github.com/dyluth/dogroom/internal/printer"
)

// JSONL writes items as line-delimited JSON, one object per line.
// This format is ideal for streaming and processing with tools like jq.
func JSONL[T any](w io.Writer, items []T) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal record to JSON: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("failed to write JSONL output: %w", err)
		}
	}
	return nil
}

// SingleJSON writes v as pretty-printed JSON followed by a newline.
func SingleJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record to JSON: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

// Hosts writes hosts as a table. Returns the number of rows.
func Hosts(w io.Writer, hosts []domain.Host) (int, error) {
	if len(hosts) == 0 {
		fmt.Fprintln(w, "No hosts found")
		return 0, nil
	}

	rows := make([][]string, len(hosts))
	for i, h := range hosts {
		rows[i] = []string{
			h.ID,
			h.Name,
			h.Location.City,
			formatPrice(h.PricePerNight),
			formatRating(h.Rating, h.ReviewsCount),
			joinTags(h.Tags),
			joinSizes(h.AllowedPetSizes),
			formatVerified(h.Verified),
		}
	}
	err := printer.TableTo(w, []string{"ID", "Name", "City", "Price", "Rating", "Services", "Pets", "Verified"}, rows)
	return len(hosts), err
}

// Previews writes search results as a table, best first.
func Previews(w io.Writer, previews []domain.HostPreview) (int, error) {
	if len(previews) == 0 {
		fmt.Fprintln(w, "No matching hosts")
		return 0, nil
	}

	rows := make([][]string, len(previews))
	for i, p := range previews {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			p.ID,
			p.Name,
			p.Location.City,
			formatPrice(p.PricePerNight),
			strconv.FormatFloat(p.Score, 'f', 0, 64),
		}
	}
	err := printer.TableTo(w, []string{"#", "ID", "Name", "City", "Price", "Score"}, rows)
	return len(previews), err
}

// Bookings writes bookings as a table. Host names are shown when joined.
func Bookings(w io.Writer, bookings []domain.BookingWithHost) (int, error) {
	if len(bookings) == 0 {
		fmt.Fprintln(w, "No bookings found")
		return 0, nil
	}

	rows := make([][]string, len(bookings))
	for i, b := range bookings {
		host := b.HostID
		if b.Host != nil {
			host = b.Host.Name
		}
		rows[i] = []string{
			formatID(b.ID),
			host,
			b.UserID,
			formatDate(b.From),
			formatDate(b.To),
			string(b.Status),
		}
	}
	err := printer.TableTo(w, []string{"ID", "Host", "User", "From", "To", "Status"}, rows)
	return len(bookings), err
}

// Users writes users as a table.
func Users(w io.Writer, users []domain.User) (int, error) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found")
		return 0, nil
	}

	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = []string{u.ID, u.Name}
	}
	err := printer.TableTo(w, []string{"ID", "Name"}, rows)
	return len(users), err
}

// Chats writes chat boards as a table with their message counts.
func Chats(w io.Writer, chats []domain.ChatBoard) (int, error) {
	if len(chats) == 0 {
		fmt.Fprintln(w, "No chats found")
		return 0, nil
	}

	rows := make([][]string, len(chats))
	for i, c := range chats {
		rows[i] = []string{c.ID, c.Title, strconv.Itoa(len(c.Messages))}
	}
	err := printer.TableTo(w, []string{"ID", "Title", "Messages"}, rows)
	return len(chats), err
}

// Messages writes chat messages one per line, oldest first.
func Messages(w io.Writer, msgs []domain.ChatMessage) int {
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No messages yet")
		return 0
	}
	for _, m := range msgs {
		fmt.Fprintf(w, "[%s] %s: %s\n", formatClock(m.TS), m.UserID, formatText(m.Text))
	}
	return len(msgs)
}

// formatID truncates ids to 8 characters for compact display.
// Short ids such as seed ids are shown whole.
func formatID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatText keeps the first non-empty line, truncated to 60 characters.
func formatText(text string) string {
	var firstLine string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			firstLine = trimmed
			break
		}
	}
	if firstLine == "" {
		return "-"
	}
	if len(firstLine) > 60 {
		return firstLine[:57] + "..."
	}
	return firstLine
}

func formatPrice(perNight int) string {
	return fmt.Sprintf("£%d/night", perNight)
}

func formatRating(rating float64, reviews int) string {
	if reviews == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f (%d)", rating, reviews)
}

func formatVerified(v bool) string {
	if v {
		return "yes"
	}
	return "-"
}

func joinTags(tags []domain.ServiceType) string {
	if len(tags) == 0 {
		return "-"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

func joinSizes(sizes []domain.PetSize) string {
	if len(sizes) == 0 {
		return "-"
	}
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

// formatDate renders epoch milliseconds as a UTC calendar date, keeping the
// time of day only when it is not midnight.
func formatDate(ms int64) string {
	if ms == 0 {
		return "-"
	}
	t := time.UnixMilli(ms).UTC()
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04")
}

func formatClock(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04")
}
