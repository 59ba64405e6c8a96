package qrtoken

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/absensi-backend-go/internal/pkg/utils"
)

type Type string

const (
	TypeCheckIn  Type = "checkin"
	TypeCheckOut Type = "checkout"
)

func (t Type) IsValid() bool {
	return t == TypeCheckIn || t == TypeCheckOut
}

// QRToken is a shared daily code. It is never consumed by a scan.
type QRToken struct {
	ID        string
	Token     string
	Type      Type
	IssuedOn  time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (q QRToken) IsExpired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}

// Window is a half-open [Start, End) time-of-day range in which one token type is minted.
type Window struct {
	Type  Type
	Start string
	End   string
}

// Windows resolves the configured windows against a calendar day.
type Windows struct {
	CheckIn  Window
	CheckOut Window
	Location *time.Location
}

func NewWindows(checkInStart, checkInEnd, checkOutStart, checkOutEnd string, loc *time.Location) (Windows, error) {
	w := Windows{
		CheckIn:  Window{Type: TypeCheckIn, Start: checkInStart, End: checkInEnd},
		CheckOut: Window{Type: TypeCheckOut, Start: checkOutStart, End: checkOutEnd},
		Location: loc,
	}
	var minutes [2][2]int
	for i, win := range []Window{w.CheckIn, w.CheckOut} {
		sh, sm, err := utils.ParseClock(win.Start)
		if err != nil {
			return Windows{}, fmt.Errorf("invalid %s window start: %w", win.Type, err)
		}
		eh, em, err := utils.ParseClock(win.End)
		if err != nil {
			return Windows{}, fmt.Errorf("invalid %s window end: %w", win.Type, err)
		}
		minutes[i] = [2]int{sh*60 + sm, eh*60 + em}
		if minutes[i][0] >= minutes[i][1] {
			return Windows{}, fmt.Errorf("%s window must end after it starts", win.Type)
		}
	}
	if minutes[0][1] > minutes[1][0] {
		return Windows{}, fmt.Errorf("checkin window must close before checkout window opens")
	}
	return w, nil
}

// Active returns the window containing now and its expiry on that day.
func (w Windows) Active(now time.Time) (Window, time.Time, bool) {
	local := now.In(w.Location)
	for _, win := range []Window{w.CheckIn, w.CheckOut} {
		start, err := utils.AtClock(local, win.Start, w.Location)
		if err != nil {
			continue
		}
		end, err := utils.AtClock(local, win.End, w.Location)
		if err != nil {
			continue
		}
		if !local.Before(start) && local.Before(end) {
			return win, end, true
		}
	}
	return Window{}, time.Time{}, false
}
