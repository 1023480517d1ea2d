package common

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 8
	minSlotHeight    = 8.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 7
	defaultMaxHour   = 21
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 18.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	slotAvailableColor   = color.RGBA{133, 193, 85, 220}
	slotReservedColor    = color.RGBA{255, 182, 193, 255} // Светло-розовый для зарезервированных
	slotUnavailableColor = color.RGBA{158, 158, 158, 200}
	slotDefaultColor     = color.RGBA{220, 220, 220, 200}
	slotTextColor        = color.RGBA{20, 24, 28, 230}
	slotReservedText     = color.RGBA{120, 40, 50, 255}
	slotShadowColor      = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// weekBounds содержит границы недели (lunes - sábado)
type weekBounds struct {
	start time.Time
	end   time.Time
}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

func fontData(style FontStyle) []byte {
	switch style {
	case FontStyleBold:
		return gobold.TTF
	case FontStyleMedium:
		return gomedium.TTF
	default:
		return goregular.TTF
	}
}

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData(style))
		if err == nil {
			cachedFonts[style] = parsed
		}
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	// fallback к встроенному шрифту
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует недельную сетку слотов.
// На зарезервированных слотах показывается только инициал студента.
func GenerateWeekImage(grid *model.Grid, now time.Time) ([]byte, error) {
	week := normalizeToWeekBounds(now)
	today := normalizeToDay(now)
	highlightToday := !today.Before(week.start) && !today.After(week.end)

	hours := calculateHourRange(grid)
	dayCount := len(model.Weekdays)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / dayCount
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	byDay := groupSlotsByDay(grid)
	date := week.start
	for dayIndex, day := range model.Weekdays {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)
		isToday := highlightToday && date.Equal(today)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, day, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, gs := range byDay[day] {
			drawSlot(dc, gs, x, y, dayWidth, hours, cellHeight)
		}

		date = date.AddDate(0, 0, 1)
	}

	if highlightToday {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth*dayCount)
	}
	drawLegend(dc, dayWidth*dayCount)

	return encodeImage(dc)
}

// normalizeToWeekBounds возвращает понедельник и субботу недели, в которую попадает date.
// Воскресенье относится к прошедшей неделе.
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := normalizeToDay(date)

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, len(model.Weekdays)-1)

	return weekBounds{start: start, end: end}
}

// WeekStart понедельник недели, в которую попадает date
func WeekStart(date time.Time) time.Time {
	return normalizeToWeekBounds(date).start
}

// normalizeToDay нормализует время к началу дня
func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func groupSlotsByDay(grid *model.Grid) map[model.Weekday][]*model.GridSlot {
	byDay := make(map[model.Weekday][]*model.GridSlot)
	for _, gs := range grid.Slots {
		byDay[gs.Slot.Weekday] = append(byDay[gs.Slot.Weekday], gs)
	}
	return byDay
}

// clockHours переводит "HH:MM" в дробные часы
func clockHours(clock string) (float64, bool) {
	t, err := model.ParseClock(clock)
	if err != nil {
		return 0, false
	}
	return float64(t.Hour()) + float64(t.Minute())/60.0, true
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(grid *model.Grid) hourRange {
	minHour := 24
	maxHour := 0

	for _, gs := range grid.Slots {
		start, ok := clockHours(gs.Slot.StartTime)
		if !ok {
			continue
		}
		end, ok := clockHours(gs.Slot.EndTime)
		if !ok {
			continue
		}
		if h := int(start); h < minHour {
			minHour = h
		}
		endH := int(end)
		if end > float64(endH) {
			endH++
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с датами недели
func drawHeader(dc *gg.Context, week weekBounds) {
	title := WeekTitle(week.start)

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// WeekTitle заголовок недели, начинающейся с monday
func WeekTitle(monday time.Time) string {
	saturday := monday.AddDate(0, 0, len(model.Weekdays)-1)
	return fmt.Sprintf("Semana del %s al %s", monday.Format("02/01"), saturday.Format("02/01"))
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := fmt.Sprintf("%02d:00", hours.start+hIdx)
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if isToday {
		dc.SetColor(todayBgColor)
	} else if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, day model.Weekday, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02/01"), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(WeekdayShort(day), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawSlot рисует один слот
func drawSlot(dc *gg.Context, gs *model.GridSlot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start, ok := clockHours(gs.Slot.StartTime)
	if !ok {
		return
	}
	end, ok := clockHours(gs.Slot.EndTime)
	if !ok {
		return
	}

	slotY := y + (start-float64(hours.start))*cellHeight
	slotHeight := max((end-start)*cellHeight, minSlotHeight)

	fillColor := slotColor(gs.Slot.Status)
	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	// Тень
	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, slotY+1+shadowOffset, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Fill()

	// Основной слот
	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+1, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, slotY+1, slotWidth, slotHeight-2, slotBorderRadius)
	dc.Stroke()

	txtColor := slotTextColor
	if gs.Slot.IsReserved() {
		txtColor = slotReservedText
	}

	text := gs.Slot.StartTime
	if gs.Booking != nil {
		text += "  " + gs.Booking.Initial()
	}

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(txtColor)
	dc.DrawStringAnchored(text, x+dayPaddingX+8, slotY+slotHeight/2, 0, 0.35)
}

// slotColor возвращает цвет слота по его статусу
func slotColor(status model.SlotStatus) color.RGBA {
	switch status {
	case model.SlotStatusAvailable:
		return slotAvailableColor
	case model.SlotStatusReserved:
		return slotReservedColor
	case model.SlotStatusUnavailable:
		return slotUnavailableColor
	default:
		return slotDefaultColor
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, width int) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	lineY := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), lineY, float64(leftLabelsWidth+width), lineY)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, daysWidth int) {
	legendX := float64(leftLabelsWidth + daysWidth + 10)
	legendY := float64(imageHeight) - 110.0

	items := []model.SlotStatus{
		model.SlotStatusAvailable,
		model.SlotStatusReserved,
		model.SlotStatusUnavailable,
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, status := range items {
		dc.SetColor(slotColor(status))
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize, FontStyleDefault)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(StatusLabel(status), legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
