// Package phone implements the rotary phone controller: a three-state
// call model (Idle, Dialing, Answering) driven by two concurrent
// hardware monitor loops.
//
// The hook monitor reacts to debounced hook switch edges and fires
// pickup/hang_up. The dial monitor polls the rotary pulse contact,
// decodes pulse trains into digits (ten pulses encode "0") and fires
// dial once the inter-digit gap closes a number. Transitions and their
// audio side effects run serialized under one mutex; only hang_up needs
// no secondary debounce, so ending a call is never delayed by in-flight
// audio.
package phone
