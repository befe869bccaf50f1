package services

import (
	"net/url"
	"strings"
)

// DefaultCarrier is assumed when tracking is set without a carrier.
const DefaultCarrier = "DHL"

var carrierTrackingURLs = map[string]string{
	"DHL":    "https://www.dhl.de/de/privatkunden/pakete-empfangen/verfolgen.html?piececode=%s",
	"DPD":    "https://tracking.dpd.de/parcelstatus?query=%s&locale=de_DE",
	"Hermes": "https://www.myhermes.de/empfangen/sendungsverfolgung/sendungsinformation/#%s",
	"UPS":    "https://www.ups.com/track?tracknum=%s",
	"GLS":    "https://gls-group.eu/DE/de/paketverfolgung?match=%s",
}

// TrackingURL builds the public tracking page for a shipment. Carriers
// without a known page fall back to a web search.
func TrackingURL(carrier, trackingNumber string) string {
	number := url.QueryEscape(trackingNumber)
	if pattern, ok := carrierTrackingURLs[carrier]; ok {
		return strings.Replace(pattern, "%s", number, 1)
	}
	return "https://www.google.com/search?q=" + url.QueryEscape(carrier) + "+tracking+" + number
}
