package main

const version = "lfsrgen 1.0.0\n"
