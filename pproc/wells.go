package pproc

import (
	"fmt"

	"github.com/im7mortal/UTM"
	"github.com/maseology/mmio"
)

// WellSite is a monitoring location placed in geographic space.
type WellSite struct {
	ID    string
	Label string
	X, Y  float64 // projected (UTM) coordinates
	Layer int
}

// ExportWells writes monitoring wells to csv with their geographic
// coordinates, converting from the given UTM zone.
func ExportWells(fp string, wells []WellSite, utmzone int, northern bool) error {
	lns := make([]string, 0, len(wells)+1)
	lns = append(lns, "id,label,x,y,lat,lon,layer")
	for _, w := range wells {
		lat, lon, err := UTM.ToLatLon(w.X, w.Y, utmzone, "", northern)
		if err != nil {
			return fmt.Errorf("ExportWells %s: %v", w.ID, err)
		}
		lns = append(lns, fmt.Sprintf("%s,%s,%f,%f,%f,%f,%d", w.ID, w.Label, w.X, w.Y, lat, lon, w.Layer))
	}
	if err := mmio.WriteStrings(fp, lns); err != nil {
		return fmt.Errorf("ExportWells: %v", err)
	}
	return nil
}
