package queue

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/store"
	"github.com/iov-one/htlc/x/cash"
	. "github.com/smartystreets/goconvey/convey"
)

func TestQueue(t *testing.T) {
	Convey("Given an empty queue", t, func() {
		db := store.MemStore()
		a := htlctest.NewCondition().Address()
		b := htlctest.NewCondition().Address()

		Convey("Pop returns ErrEmpty", func() {
			_, _, err := Pop(db)
			So(errors.ErrEmpty.Is(err), ShouldBeTrue)

			pending, err := Pending(db)
			So(err, ShouldBeNil)
			So(pending, ShouldBeEmpty)
		})

		Convey("Invalid transfers are rejected", func() {
			_, err := Put(db, &Transfer{From: a, To: b})
			So(errors.ErrAmount.Is(err), ShouldBeTrue)
			_, err = Put(db, &Transfer{From: a, Amount: 1})
			So(errors.ErrEmpty.Is(err), ShouldBeTrue)
		})

		Convey("When transfers are queued", func() {
			first := &Transfer{From: a, To: b, Amount: 10, Ref: []byte{1}, Reason: "payout"}
			second := &Transfer{From: a, To: a, Amount: 5, Ref: []byte{1}, Reason: "surplus"}
			k1, err := Put(db, first)
			So(err, ShouldBeNil)
			k2, err := Put(db, second)
			So(err, ShouldBeNil)
			So(string(k1) < string(k2), ShouldBeTrue)

			Convey("Pending lists them in order", func() {
				pending, err := Pending(db)
				So(err, ShouldBeNil)
				So(pending, ShouldResemble, []*Transfer{first, second})
			})

			Convey("Pop returns them in order", func() {
				key, got, err := Pop(db)
				So(err, ShouldBeNil)
				So(key, ShouldResemble, k1)
				So(got, ShouldResemble, first)

				key, got, err = Pop(db)
				So(err, ShouldBeNil)
				So(key, ShouldResemble, k2)
				So(got, ShouldResemble, second)

				_, _, err = Pop(db)
				So(errors.ErrEmpty.Is(err), ShouldBeTrue)

				Convey("And the queue can be reused", func() {
					k3, err := Put(db, first)
					So(err, ShouldBeNil)
					pending, err := Pending(db)
					So(err, ShouldBeNil)
					So(pending, ShouldHaveLength, 1)
					key, _, err := Pop(db)
					So(err, ShouldBeNil)
					So(key, ShouldResemble, k3)
				})
			})
		})
	})
}

func TestRunner(t *testing.T) {
	Convey("Given funded accounts and a runner", t, func() {
		db := store.MemStore()
		control := cash.NewController(cash.NewBucket())
		custody := htlctest.NewCondition().Address()
		recipient := htlctest.NewCondition().Address()
		depositor := htlctest.NewCondition().Address()
		So(control.IssueCoins(db, custody, 100), ShouldBeNil)

		runner := NewRunner(control)
		ctx := context.Background()

		balance := func(addr htlc.Address) uint64 {
			v, err := control.Balance(db, addr)
			So(err, ShouldBeNil)
			return v
		}

		Convey("Queued transfers are executed in order", func() {
			_, err := Put(db, &Transfer{From: custody, To: recipient, Amount: 60, Reason: "payout"})
			So(err, ShouldBeNil)
			_, err = Put(db, &Transfer{From: custody, To: depositor, Amount: 40, Reason: "surplus"})
			So(err, ShouldBeNil)

			res := runner.Tick(ctx, db)
			So(res.Executed, ShouldEqual, 2)
			So(res.Failed, ShouldEqual, 0)
			So(res.Tags, ShouldHaveLength, 2)
			So(string(res.Tags[0].Key), ShouldEqual, TagExecuted)

			So(balance(custody), ShouldEqual, 0)
			So(balance(recipient), ShouldEqual, 60)
			So(balance(depositor), ShouldEqual, 40)

			pending, err := Pending(db)
			So(err, ShouldBeNil)
			So(pending, ShouldBeEmpty)
		})

		Convey("A failed transfer is dropped and others still run", func() {
			_, err := Put(db, &Transfer{From: custody, To: recipient, Amount: 500, Reason: "payout"})
			So(err, ShouldBeNil)
			_, err = Put(db, &Transfer{From: custody, To: depositor, Amount: 30, Reason: "refund"})
			So(err, ShouldBeNil)

			res := runner.Tick(ctx, db)
			So(res.Executed, ShouldEqual, 1)
			So(res.Failed, ShouldEqual, 1)
			So(string(res.Tags[0].Key), ShouldEqual, TagFailed)

			So(balance(custody), ShouldEqual, 70)
			So(balance(recipient), ShouldEqual, 0)
			So(balance(depositor), ShouldEqual, 30)

			Convey("And it is not retried", func() {
				res := runner.Tick(ctx, db)
				So(res.Executed, ShouldEqual, 0)
				So(res.Failed, ShouldEqual, 0)
				So(balance(recipient), ShouldEqual, 0)
			})
		})

		Convey("An unreadable entry is dropped and does not block the queue", func() {
			bad, err := Put(db, &Transfer{From: custody, To: recipient, Amount: 10, Reason: "payout"})
			So(err, ShouldBeNil)
			So(db.Set(bucket.DBKey(bad), []byte{0xff}), ShouldBeNil)
			_, err = Put(db, &Transfer{From: custody, To: depositor, Amount: 30, Reason: "refund"})
			So(err, ShouldBeNil)

			res := runner.Tick(ctx, db)
			So(res.Failed, ShouldEqual, 1)
			So(res.Executed, ShouldEqual, 1)
			So(string(res.Tags[0].Key), ShouldEqual, TagFailed)
			So(string(res.Tags[0].Value), ShouldEqual, hex.EncodeToString(bad))
			So(balance(recipient), ShouldEqual, 0)
			So(balance(depositor), ShouldEqual, 30)

			has, err := db.Has(bucket.DBKey(bad))
			So(err, ShouldBeNil)
			So(has, ShouldBeFalse)

			Convey("And the next block has nothing to do", func() {
				res := runner.Tick(ctx, db)
				So(res.Executed+res.Failed, ShouldEqual, 0)
				pending, err := Pending(db)
				So(err, ShouldBeNil)
				So(pending, ShouldBeEmpty)
			})
		})
	})
}
