// Package countries exposes the country cache over HTTP.
//
// Routes:
//
//	POST   /countries/refresh  run the refresh pipeline
//	GET    /countries          list with region, currency, sort, page and limit
//	GET    /countries/image    summary image from the last refresh
//	GET    /countries/report   summary workbook from the last refresh
//	GET    /countries/:name    one country, name matched case-insensitively
//	DELETE /countries/:name    remove one country
//
// The pipeline itself lives in the refresh, normalize, sources, store and
// summary subpackages.
package countries
