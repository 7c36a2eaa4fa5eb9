// Package export writes ride histories in JSON or CSV for offline analysis.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/kmartel07/gridride/core/model"
)

// WriteJSON writes the rides to w as a JSON array.
func WriteJSON(w io.Writer, rides []model.RideRequest) error {
	enc := json.NewEncoder(w)
	return enc.Encode(rides)
}

// WriteCSV writes the rides to w with a header row.
func WriteCSV(w io.Writer, rides []model.RideRequest) error {
	cw := csv.NewWriter(w)
	header := []string{"ride_id", "rider_id", "status", "driver_id", "rejected_by",
		"pickup_x", "pickup_y", "dropoff_x", "dropoff_y", "created_at_tick"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rides {
		rec := []string{
			r.ID,
			r.RiderID,
			r.Status.String(),
			r.AssignedDriverID,
			strings.Join(r.RejectedBy, ";"),
			strconv.Itoa(r.Pickup.X),
			strconv.Itoa(r.Pickup.Y),
			strconv.Itoa(r.Dropoff.X),
			strconv.Itoa(r.Dropoff.Y),
			strconv.Itoa(r.CreatedAtTick),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
