package fixture

import "testing"

func TestOutcomeFor(t *testing.T) {
	base := Fixture{
		ID:         "fx-1",
		HomeClubID: "home",
		AwayClubID: "away",
		Status:     StatusFinished,
	}

	tests := []struct {
		name   string
		result Result
		status string
		club   string
		want   Outcome
	}{
		{name: "winner ref win", result: Result{Kind: ResultKindWinner, WinnerClubID: "home"}, club: "home", want: OutcomeWin},
		{name: "winner ref loss", result: Result{Kind: ResultKindWinner, WinnerClubID: "home"}, club: "away", want: OutcomeLoss},
		{name: "empty winner is draw", result: Result{Kind: ResultKindWinner}, club: "home", want: OutcomeDraw},
		{name: "code home win", result: Result{Kind: ResultKindCode, Code: CodeHomeWin}, club: "home", want: OutcomeWin},
		{name: "code away win", result: Result{Kind: ResultKindCode, Code: CodeAwayWin}, club: "home", want: OutcomeLoss},
		{name: "code draw", result: Result{Kind: ResultKindCode, Code: CodeDraw}, club: "away", want: OutcomeDraw},
		{name: "goals home win", result: Result{Kind: ResultKindGoals, HomeGoals: 2, AwayGoals: 1}, club: "home", want: OutcomeWin},
		{name: "goals away perspective", result: Result{Kind: ResultKindGoals, HomeGoals: 2, AwayGoals: 1}, club: "away", want: OutcomeLoss},
		{name: "goals draw", result: Result{Kind: ResultKindGoals}, club: "home", want: OutcomeDraw},
		{name: "no evidence", result: Result{Kind: ResultKindNone}, club: "home", want: OutcomePending},
		{name: "unfinished fixture", result: Result{Kind: ResultKindGoals, HomeGoals: 1}, status: StatusLive, club: "home", want: OutcomePending},
		{name: "club not playing", result: Result{Kind: ResultKindWinner, WinnerClubID: "home"}, club: "other", want: OutcomePending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := base
			f.Result = tc.result
			if tc.status != "" {
				f.Status = tc.status
			}
			if got := f.OutcomeFor(tc.club); got != tc.want {
				t.Fatalf("outcome: got=%s want=%s", got, tc.want)
			}
		})
	}
}

func TestIsFinishedStatus(t *testing.T) {
	finished := []string{"FINISHED", "ft", "AET", "pen"}
	for _, status := range finished {
		if !IsFinishedStatus(status) {
			t.Fatalf("%q should count as finished", status)
		}
	}

	open := []string{"", "SCHEDULED", "LIVE", "POSTPONED", "CANCELLED"}
	for _, status := range open {
		if IsFinishedStatus(status) {
			t.Fatalf("%q should not count as finished", status)
		}
	}
}

func TestIsCancelledLikeStatus(t *testing.T) {
	for _, status := range []string{"CANCELLED", "postponed", "Abandoned"} {
		if !IsCancelledLikeStatus(status) {
			t.Fatalf("%q should count as cancelled-like", status)
		}
	}
	if IsCancelledLikeStatus("SCHEDULED") {
		t.Fatalf("scheduled is not cancelled-like")
	}
}
