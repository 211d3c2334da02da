// Package normalize turns decoded source records into canonical country rows.
//
// Normalize is pure: given one record, the exchange-rate table, the run time and a
// multiplier source it returns a row or a *Rejection. Rejected records are counted
// by the caller and never abort the batch.
//
// The estimated GDP is population × multiplier ÷ exchange rate, with the multiplier
// drawn per row from [1000, 2000]. Without a usable rate the exchange rate is nil
// and the estimate is exactly 0.
package normalize
