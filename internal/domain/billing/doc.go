// Package billing holds the invoicing and payment aggregates.
//
// An Invoice prices its lines under Indian GST: per-line discount, then
// CGST/SGST (or IGST for inter-state supply) on the discounted amount,
// then invoice-level charges and discount on top. Totals are carried on
// the row and re-derivable from the lines; CheckTotals guards the two
// from drifting apart.
//
// A Payment row tracks what a customer has paid against one invoice.
// Reconcile derives the settlement (balance, excess, invoice status)
// from the grand total and the sum paid so far; the invoice status is
// never stored without going through it.
package billing
