// Package game implements the apology game: the player tries to win back an
// angry partner whose forgiveness score moves with every reply.
//
// Each assistant turn is expected to end with a score marker:
//
//	[UPSET] I'm still a bit upset, but I appreciate your apology.
//	[SCORE] 5
//
// The score starts at InitialScore and is clamped to [LoseThreshold, WinThreshold].
// Reaching either bound ends the game.
//
// Scoring is pure and usable on its own:
//
//	score, found := game.ApplyTurn(reply, score)
//
// A Session wires the scoring state to a model through the agent package:
//
//	s := game.NewSession(agent.Streaming(c, print), game.Config{Difficulty: game.Normal})
//	turn, err := s.Say(ctx, "I'm sorry I forgot our anniversary.")
package game
