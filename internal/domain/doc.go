// Package domain models the weather alerts relayed from an IEM iembot RSS
// feed into a chat room.
//
// # Data Source
//
// Alerts come from the Iowa Environmental Mesonet iembot room feeds, e.g.
// https://mesonet.agron.iastate.edu/iembot-rss/room/taechat.xml. Each RSS item
// carries one National Weather Service product:
//
//	<link>        stable product URL, used as the alert identifier
//	<title>       product headline, e.g. "Winter Storm Warning"
//	<description> HTML body, optionally embedding a <link>...</link> segment
//
// The feed is published newest-first.
//
// # Product Metadata
//
// Warning products append machine-oriented lines that are noise in chat:
//
//	LAT...LON 4051 9531 4049 9512 ...
//	TIME...MOT...LOC 2104Z 245DEG 31KT 4046 9544
//
// [ExtractAlertInfo] drops any such line that reaches a colon, plus every
// digit run followed by whitespace, where digits and whitespace are taken in
// the Unicode sense ("12\u00a0people" loses its count too). The digit pass is aggressive and also eats
// numbers inside prose ("12 people" becomes "people"); it is kept as is for
// parity with the messages operators already receive.
//
// # Message Shape
//
//	**Weather Alert:**
//
//	<title>
//
//	<cleaned summary>
//
// capped at the configured maximum length with a trailing "...".
package domain
