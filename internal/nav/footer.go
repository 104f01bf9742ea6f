package nav

import (
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// YearSelector marks the footer element receiving the current year.
const YearSelector = "[data-year]"

// SetFooterYear writes now's calendar year into the year element under
// footerRoot. It reports whether the element was found.
func SetFooterYear(footerRoot *goquery.Selection, now time.Time) bool {
	el := footerRoot.Find(YearSelector).First()
	if el.Length() == 0 {
		return false
	}
	el.SetText(strconv.Itoa(now.Year()))

	return true
}
