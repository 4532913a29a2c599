package gorules

import "github.com/quasilyte/go-ruleguard/dsl"

func smells(m dsl.Matcher) {
	// Two consecutive guards with the same return, mergeable with ||:
	//   if a { return err }
	//   if b { return err }
	m.Match(`if $c1 { return $ret }; if $c2 { return $ret }`).
		Report(`two consecutive guards return the same value; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { return $ret }`)

	// Same shape with continue inside loops.
	m.Match(`if $c1 { continue }; if $c2 { continue }`).
		Report(`two consecutive continues; consider merging conditions with ||`).
		Suggest(`if $c1 || $c2 { continue }`)

	// Not always wrong, but worth a look in the hot paths.
	m.Match(`for $*_ { for $*_ { $*_ } }`).
		Report(`nested for-loop; consider extracting inner loop logic or reducing algorithmic complexity`)
}

func timeHelpers(m dsl.Matcher) {
	m.Match(`time.Now().Sub($x)`).
		Report(`use time.Since instead`).
		Suggest(`time.Since($x)`)

	m.Match(`$x.Sub(time.Now())`).
		Report(`use time.Until instead`).
		Suggest(`time.Until($x)`)
}
