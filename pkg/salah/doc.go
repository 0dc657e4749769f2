// Package salah computes the daily prayer times of a location.
//
// The six boundaries (fajr, sherook, dohr, asr, maghreb and ishaa) are
// derived from solar noon and the time the sun takes to reach a given
// zenith distance. Fajr and ishaa depend on the calculation Method's
// twilight angles, asr on the Madhab's shadow factor. The night is split
// into thirds between maghreb and fajr.
//
// # Basic Usage
//
//	loc, err := salah.NewLocation(-6.18234, 106.84287, 7)
//	if err != nil {
//	    return err
//	}
//
//	times, err := salah.NewSchedule(loc).
//	    WithConfig(salah.NewConfig().With(salah.Singapore, salah.Shafi)).
//	    Calculate()
//	if err != nil {
//	    return err
//	}
//
//	fmt.Println(times.Fajr.Format("15:04"), times.Name(times.Next()))
package salah
