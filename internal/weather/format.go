package weather

import "fmt"

// Summary renders the forecast as the fixed-format, emoji-annotated reply:
// location header, time range, condition, precipitation probability,
// temperature range, and comfort index, one per line.
func (f *Forecast) Summary() string {
	return fmt.Sprintf(
		"【%s 最新天氣】\n"+
			"⏰ %s ~ %s\n"+
			"🌤 天氣: %s\n"+
			"🌧 降雨機率: %s%%\n"+
			"🌡 溫度: %s~%s°C\n"+
			"💧 舒適度: %s",
		f.LocationName,
		f.StartTime, f.EndTime,
		f.Condition,
		f.RainChance,
		f.MinTemp, f.MaxTemp,
		f.Comfort,
	)
}
