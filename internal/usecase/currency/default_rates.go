package currency

// DefaultRates is the built-in approximate table of USD value per unit of currency.
// It seeds an empty rate store once; live values come from the rate refresher.
var DefaultRates = map[string]string{
	"USD": "1.0",
	"EUR": "1.09",
	"GBP": "1.27",
	"JPY": "0.0067",
	"CHF": "1.13",
	"CAD": "0.74",
	"AUD": "0.66",
	"NZD": "0.61",
	"CNY": "0.14",
	"HKD": "0.128",
	"SGD": "0.74",
	"INR": "0.012",
	"KRW": "0.00075",
	"SEK": "0.096",
	"NOK": "0.094",
	"DKK": "0.146",
	"PLN": "0.25",
	"CZK": "0.044",
	"HUF": "0.0028",
	"RUB": "0.011",
	"TRY": "0.031",
	"BRL": "0.20",
	"MXN": "0.058",
	"ARS": "0.0011",
	"ZAR": "0.054",
	"ILS": "0.27",
	"AED": "0.272",
	"THB": "0.028",
	"UAH": "0.024",
}
