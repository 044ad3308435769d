// Package tally provides the types and functions to track personal
// investments: buys of securities grouped into dated orders.
//
// The core functionalities include:
//   - Book Management: a Book holds the orders of a session in display order,
//     and every edit (create, delete or change an order or a buy) goes through
//     it so that order and buy IDs stay unique.
//   - Derived Values: totals of buys, orders and the whole book, and positions
//     aggregating every buy of a ticker.
//   - Import/Export: reading and writing a book as a CSV file with the header
//     "Date,Quantity,Symbol,Price,Currency", one row per buy.
//
// Amounts use exact decimal arithmetic. Numbers typed by users or read from
// files are coerced rather than validated: unreadable numbers count as zero.
//
// This package serves as the foundational logic for the `tly` command-line
// tool and its web server.
package tally
