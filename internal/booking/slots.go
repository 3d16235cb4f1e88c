package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/Leganyst/booking-core/internal/model"
	"github.com/Leganyst/booking-core/internal/utils"
)

// Slot — одно время начала в дневной сетке доступности ресторана.
type Slot struct {
	Time         string  `json:"time"`
	FreeTables   int     `json:"free_tables"`
	BookedTables int     `json:"booked_tables"`
	TotalTables  int     `json:"total_tables"`
	Percentage   float64 `json:"availability_percentage"`
}

// SlotGrid строит по записи на каждый шаг от открытия до закрытия (закрытие
// включается, если попадает на шаг). В записи — сколько столов вмещают guests
// (guests <= 0 — все активные столы) и сколько из них свободно на визит
// длительностью duration с этого времени. Визит, который не заканчивается
// до полуночи, забронировать нельзя: у такого слота свободных столов нет.
func SlotGrid(
	r *model.Restaurant,
	date time.Time,
	tables []model.Table,
	reservations []model.Reservation,
	step, duration time.Duration,
	guests int,
) ([]Slot, error) {
	day := utils.DateOf(date)
	opening := day.Add(time.Duration(r.OpeningTime))
	closing := day.Add(time.Duration(r.ClosingTime))

	starts, err := utils.SplitToTimeSlots(utils.TimeRange{Start: opening, End: closing.Add(step)}, step, 0)
	if err != nil {
		return nil, err
	}

	byTable := make(map[uuid.UUID][]utils.TimeRange, len(tables))
	for _, res := range reservations {
		if res.Status.Occupies() {
			byTable[res.TableID] = append(byTable[res.TableID], res.Interval())
		}
	}

	qualified := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		if Fits(&t, max(guests, 1)) {
			qualified = append(qualified, t)
		}
	}

	grid := make([]Slot, 0, len(starts))
	for _, s := range starts {
		candidate := utils.IntervalFor(day, utils.ClockOf(s.Start), duration)
		slot := Slot{Time: s.Start.Format("15:04"), TotalTables: len(qualified)}
		bookable := ValidateSitting(candidate) == nil
		for i := range qualified {
			busy, _ := utils.HasOverlap(candidate, byTable[qualified[i].ID])
			switch {
			case busy:
				slot.BookedTables++
			case bookable && Bookable(&qualified[i]):
				slot.FreeTables++
			}
		}
		if slot.TotalTables > 0 {
			slot.Percentage = float64(slot.FreeTables) / float64(slot.TotalTables) * 100
		}
		grid = append(grid, slot)
	}
	return grid, nil
}
