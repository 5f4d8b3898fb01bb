/*
Package pool implements a staking pool that streams a reward currency to
stakers in proportion to their stake.

Rewards are distributed linearly over a time window. Instead of iterating
over all stakers, a single reward per staked token accumulator is kept. Each
stake record remembers the accumulator value it has last seen, which makes
every operation constant time regardless of the number of stakers.

All amounts are normalized to 18 decimal places before being used in the
accumulator so that stake and reward currencies may use different precision.
*/
package pool
