package content

import (
	"fmt"
	"time"
)

// RelativeTime formats the distance between t and now as a Vietnamese
// human-readable string ("5 phút trước", "2 ngày trước", ...).
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	if d < 0 {
		d = 0
	}

	switch {
	case d < time.Minute:
		return "vừa xong"
	case d < time.Hour:
		return fmt.Sprintf("%d phút trước", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d giờ trước", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%d ngày trước", int(d.Hours()/24))
	case d < 365*24*time.Hour:
		return fmt.Sprintf("%d tháng trước", int(d.Hours()/(24*30)))
	default:
		return fmt.Sprintf("%d năm trước", int(d.Hours()/(24*365)))
	}
}
