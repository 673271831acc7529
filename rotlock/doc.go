// Copyright 2020 Nathan Taylor (nbtaylor@gmail.com)
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package rotlock implements an orientation-gated range reader-writer
// lock: a concurrency primitive that coordinates access to a shared
// circular degree space (0..359) by callers whose access is
// conditioned on both the current value of a global orientation
// scalar and mutual exclusion of writers with overlapping ranges.
//
// ## Overview
//
// A caller requests a lock over a degree range [low, high] as either
// a reader or a writer. The request becomes eligible only when the
// current orientation lies within the requested range and the
// reader/writer compatibility rules hold for every degree in the
// range. Until eligible, the requesting goroutine blocks inside
// Manager.Lock. When the orientation changes (Manager.SetOrientation)
// or a held lock is released (Manager.Unlock, Manager.OnExit), every
// blocked goroutine re-tests its own admission predicate.
//
// Unlike a plain range lock, admission here has two independent
// gates that must both hold:
//
//  1. Orientation gating: the orientation scalar must currently lie
//     within [low, high] (interpreted circularly: if low > high the
//     range wraps through 359 back to 0).
//  2. Mode compatibility: a reader needs no writer active or waiting
//     anywhere in its range; a writer needs neither a reader nor
//     another writer active anywhere in its range.
//
// The second rule includes a writer-preference clause: a writer
// that is already waiting on a degree blocks new readers from being
// admitted at that degree, even though a reader and the currently
// held lock (if any) might otherwise be compatible. This prevents
// writer starvation under continuous reader arrival at the cost of
// not ordering writers among themselves beyond whichever one wins
// the race to re-acquire the manager's lock first.
//
//	+----------------+--------------------------------------------+
//	| Request        | Blocks while, anywhere in [low, high]...    |
//	+----------------+--------------------------------------------+
//	| Read            | a writer is active, or a writer is waiting |
//	| Write           | a reader is active, or a writer is active  |
//	+----------------+--------------------------------------------+
//
// Both requests additionally block, regardless of the table above,
// whenever the current orientation is outside [low, high].
//
// ## Components
//
// Orientation (O) is the external orientation-scalar collaborator,
// exposed as an interface so a host can back it with its own storage.
// The per-degree counters (C), the lock registry (R), and the
// admission engine (A, the Manager type) are this package's core.
// Manager.OnExit is the exit hook (X): a host invokes it when a
// process/task that owns locks terminates, to release them and cancel
// any of that owner's still-pending requests.
package rotlock
