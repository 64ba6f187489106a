// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/kaiacore/co"
)

func TestSignal_BroadcastBeforeWait(t *testing.T) {
	var sig co.Signal
	sig.Broadcast()

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}

	var n int
	for _, w := range ws {
		select {
		case <-w.C():
		default:
			n++
		}
	}
	assert.Equal(t, 10, n, "a waiter never sees an earlier broadcast")
}

func TestSignal_BroadcastAfterWait(t *testing.T) {
	var sig co.Signal

	var ws []co.Waiter
	for range 10 {
		ws = append(ws, sig.NewWaiter())
	}

	sig.Broadcast()

	for _, w := range ws {
		<-w.C()
	}
}

func TestSignal_WaiterFollowsBroadcasts(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()

	sig.Broadcast()
	<-w.C()

	ch := w.C()
	select {
	case <-ch:
		t.Fatal("second channel closed before the second broadcast")
	default:
	}
	sig.Broadcast()
	<-ch
}

func TestGoes(t *testing.T) {
	var (
		goes co.Goes
		n    = make(chan int, 3)
	)
	for i := range 3 {
		goes.Go(func() { n <- i })
	}
	goes.Wait()
	close(n)

	var sum int
	for v := range n {
		sum += v
	}
	assert.Equal(t, 3, sum)
}
