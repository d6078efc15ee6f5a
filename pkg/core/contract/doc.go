/*
Package contract implements the consensus ordering model for contract state.

Every update to a contract's global state is positioned in history by a
GlobalOrd value: updates made at contract issuance (genesis) come first,
followed by updates anchored to witness transactions in the order of their
anchors. An anchor combines the consensus rank of a witness (WitnessOrd,
produced by an external resolver) with the witness identity as a
deterministic tiebreak, so any two validators derive bit-identical orderings
from the same inputs.

Historical state is read through a StateCursor, a traversal handle
implemented by a storage layer, and consumed via GlobalState, which walks the
cursor from the newest record backwards while verifying that records arrive
in strictly decreasing consensus order. A cursor that breaks this contract is
a defect in the storage layer, not a recoverable condition: GlobalState
panics rather than let a wrongly ordered history pass as valid.

The State interface is the read-only facade over the whole of a contract's
committed state: global state histories by type and owned state (rights,
fungible values, structured data and attachments) by transaction output.
*/
package contract
