package cmd

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/sadopc/woolywalk/internal/auth"
	"github.com/sadopc/woolywalk/internal/challenge"
)

// signIn logs username in, prompting for the password when none was given.
func signIn(env *appEnv, username, password string) (challenge.Participant, error) {
	if password == "" {
		var err error
		password, err = promptPassword("Password")
		if err != nil {
			return challenge.Participant{}, err
		}
	}
	p, err := env.sess.Login(username, password)
	if err != nil && p.Username == "" {
		return p, errors.New(auth.Message(err))
	}
	return p, err
}

func promptPassword(title string) (string, error) {
	var pw string
	err := huh.NewInput().
		Title(title).
		EchoMode(huh.EchoModePassword).
		Value(&pw).
		Run()
	return pw, err
}
